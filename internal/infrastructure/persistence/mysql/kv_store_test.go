package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbridge/internal/domain/storage"
)

func TestKVStore_Get(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		setupMock func(sqlmock.Sqlmock)
		wantValue string
		wantErr   error
	}{
		{
			name: "正常系: 値を取得",
			key:  "email",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"v"}).AddRow([]byte(`"user@example.com"`))
				mock.ExpectQuery(`SELECT v FROM kv_entries WHERE k = \?`).
					WithArgs("email").
					WillReturnRows(rows)
			},
			wantValue: "user@example.com",
		},
		{
			name: "異常系: キーが存在しない",
			key:  "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT v FROM kv_entries WHERE k = \?`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrKeyNotFound,
		},
		{
			name: "異常系: DBエラー",
			key:  "email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT v FROM kv_entries WHERE k = \?`).
					WithArgs("email").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			store := NewKVStore(&DB{DB: db})
			tt.setupMock(mock)

			var value string
			err = store.Get(context.Background(), tt.key, &value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestKVStore_Set(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     interface{}
		setupMock func(sqlmock.Sqlmock)
		wantError bool
	}{
		{
			name:  "正常系: 値を保存",
			key:   "email",
			value: "user@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_entries`).
					WithArgs("email", []byte(`"user@example.com"`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantError: false,
		},
		{
			name:  "異常系: DBエラー",
			key:   "email",
			value: "user@example.com",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_entries`).
					WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			store := NewKVStore(&DB{DB: db})
			tt.setupMock(mock)

			err = store.Set(context.Background(), tt.key, tt.value)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NoError(t, mock.ExpectationsWereMet())
			}
		})
	}
}
