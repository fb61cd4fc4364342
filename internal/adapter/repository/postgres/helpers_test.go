package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	values := []string{"0", "100", "2500.5", "0.0001", "-42.75", "99999999.9999"}

	for _, v := range values {
		d, err := decimal.NewFromString(v)
		require.NoError(t, err)

		got := numericToDecimal(decimalToNumeric(d))
		assert.True(t, d.Equal(got), "round trip of %s gave %s", v, got)
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	got := numericToDecimal(decimalToNumeric(decimal.Zero))
	assert.True(t, got.IsZero())
}

func TestMetadataJSONRoundTrip(t *testing.T) {
	b, err := metadataToJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, b, "nil metadata must stay NULL")

	m := map[string]any{"channel": "bank_transfer", "attempt": float64(2)}
	b, err = metadataToJSON(m)
	require.NoError(t, err)

	assert.Equal(t, m, jsonToMetadata(b))
	assert.Nil(t, jsonToMetadata(nil))
	assert.Nil(t, jsonToMetadata([]byte("not json")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isUniqueViolation(nil))
}
