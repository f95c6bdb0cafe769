package giftcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CardStatus
		wantErr bool
	}{
		{
			name:    "正常系: UNREDEEMED",
			input:   "UNREDEEMED",
			want:    CardStatusUnredeemed,
			wantErr: false,
		},
		{
			name:    "正常系: PENDING",
			input:   "PENDING",
			want:    CardStatusPending,
			wantErr: false,
		},
		{
			name:    "正常系: SUCCESS",
			input:   "SUCCESS",
			want:    CardStatusSuccess,
			wantErr: false,
		},
		{
			name:    "正常系: FAILURE",
			input:   "FAILURE",
			want:    CardStatusFailure,
			wantErr: false,
		},
		{
			name:    "異常系: 無効な値",
			input:   "invalid",
			want:    "",
			wantErr: true,
		},
		{
			name:    "異常系: 小文字",
			input:   "success",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCardStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCardStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name string
		cs   CardStatus
		want bool
	}{
		{
			name: "正常系: SUCCESSは終端",
			cs:   CardStatusSuccess,
			want: true,
		},
		{
			name: "正常系: FAILUREは終端",
			cs:   CardStatusFailure,
			want: true,
		},
		{
			name: "正常系: PENDINGは終端ではない",
			cs:   CardStatusPending,
			want: false,
		},
		{
			name: "正常系: UNREDEEMEDは終端ではない",
			cs:   CardStatusUnredeemed,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cs.IsTerminal()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from CardStatus
		to   CardStatus
		want bool
	}{
		{
			name: "正常系: UNREDEEMED → PENDING",
			from: CardStatusUnredeemed,
			to:   CardStatusPending,
			want: true,
		},
		{
			name: "正常系: UNREDEEMED → SUCCESS",
			from: CardStatusUnredeemed,
			to:   CardStatusSuccess,
			want: true,
		},
		{
			name: "正常系: PENDING → SUCCESS",
			from: CardStatusPending,
			to:   CardStatusSuccess,
			want: true,
		},
		{
			name: "正常系: PENDING → FAILURE",
			from: CardStatusPending,
			to:   CardStatusFailure,
			want: true,
		},
		{
			name: "正常系: 同一ステータスへの遷移は許可",
			from: CardStatusPending,
			to:   CardStatusPending,
			want: true,
		},
		{
			name: "異常系: SUCCESS → PENDING",
			from: CardStatusSuccess,
			to:   CardStatusPending,
			want: false,
		},
		{
			name: "異常系: FAILURE → SUCCESS",
			from: CardStatusFailure,
			to:   CardStatusSuccess,
			want: false,
		},
		{
			name: "異常系: PENDING → UNREDEEMED",
			from: CardStatusPending,
			to:   CardStatusUnredeemed,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.CanTransitionTo(tt.to)
			assert.Equal(t, tt.want, got)
		})
	}
}
