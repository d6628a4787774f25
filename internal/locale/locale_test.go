package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateUsesBangkokAndBuddhistEra(t *testing.T) {
	t.Parallel()

	// 2024-06-04 20:30 UTC is Wednesday 5 June 03:30 in Bangkok.
	ts := time.Date(2024, time.June, 4, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "วันพุธที่ 5 มิถุนายน พ.ศ. 2567", Date(ts))
	assert.Equal(t, "วันพุธที่ 5 มิถุนายน พ.ศ. 2567 เวลา 03:30 น.", DateTime(ts))
	assert.Equal(t, "5 มิถุนายน 2567", ShortDate(ts))
}

func TestDateYearBoundary(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.December, 31, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "วันพุธที่ 1 มกราคม พ.ศ. 2568", Date(ts))
}
