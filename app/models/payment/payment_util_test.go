package payment

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250314-[A-Z0-9]{6}$`)

	id := GenerateOrderID(now)
	assert.Regexp(t, pattern, id)
}

func TestGenerateOrderIDUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := GenerateOrderID(now)
		require.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
}

func TestValidType(t *testing.T) {
	for _, typ := range []string{TypeRegistrationFee, TypeTuitionFee, TypeUniformFee, TypeBookFee, TypeOther} {
		assert.True(t, ValidType(typ), typ)
	}
	assert.False(t, ValidType("exam_fee"))
	assert.False(t, ValidType(""))
}

func TestStatusHelpers(t *testing.T) {
	p := &Payment{Status: StatusPending}
	assert.True(t, p.IsPending())
	assert.False(t, p.IsSuccess())

	p.Status = StatusSettlement
	assert.True(t, p.IsSuccess())

	p.Status = StatusCapture
	assert.True(t, p.IsSuccess())

	p.Status = StatusRefund
	assert.False(t, p.IsSuccess())
	assert.False(t, p.IsPending())
}

func TestIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := &Payment{Status: StatusPending, ExpiredAt: &past}
	assert.True(t, expired.IsExpired())

	open := &Payment{Status: StatusPending, ExpiredAt: &future}
	assert.False(t, open.IsExpired())

	// a settled payment never reads as expired
	settled := &Payment{Status: StatusSettlement, ExpiredAt: &past}
	assert.False(t, settled.IsExpired())

	// no window recorded
	noWindow := &Payment{Status: StatusPending}
	assert.False(t, noWindow.IsExpired())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Menunggu Pembayaran", (&Payment{Status: StatusPending}).StatusLabel())
	assert.Equal(t, "Berhasil", (&Payment{Status: StatusSettlement}).StatusLabel())
	assert.Equal(t, "Berhasil", (&Payment{Status: StatusCapture}).StatusLabel())
	// unknown statuses fall through untranslated
	assert.Equal(t, "weird", (&Payment{Status: "weird"}).StatusLabel())
}

func TestJSONRoundTrip(t *testing.T) {
	j := JSON{"transaction_status": "settlement", "gross_amount": "555000.00"}

	value, err := j.Value()
	require.NoError(t, err)

	var scanned JSON
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, "settlement", scanned["transaction_status"])
}

func TestJSONScanNilAndString(t *testing.T) {
	var j JSON
	require.NoError(t, j.Scan(nil))
	assert.Empty(t, j)

	require.NoError(t, j.Scan(`{"a":"b"}`))
	assert.Equal(t, "b", j["a"])
}
