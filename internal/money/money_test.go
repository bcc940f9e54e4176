package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Cents
		wantErr bool
	}{
		{in: "12.99", want: 1299},
		{in: "5.5", want: 550},
		{in: "10", want: 1000},
		{in: ".75", want: 75},
		{in: " 3.00 ", want: 300},
		{in: "-1.25", want: -125},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "25.50", Cents(2550).String())
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.10", Cents(-310).String())
}

func TestJSON(t *testing.T) {
	var payload struct {
		Price Cents `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.99"}`), &payload))
	assert.Equal(t, Cents(1299), payload.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price":8.5}`), &payload))
	assert.Equal(t, Cents(850), payload.Price)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"8.50"}`, string(out))
}

func TestMul(t *testing.T) {
	assert.Equal(t, Cents(2000), Cents(1000).Mul(2))
}
