package entity

import (
	"encoding/json"
	"strconv"
	"time"

	"evocpi/entity/common"
	"github.com/cespare/xxhash/v2"
)

// Record is implemented by every resource the gateway exposes to partners.
type Record interface {
	RecordId() string
	Created() time.Time
	Updated() time.Time
}

// ETag returns a version tag derived from the JSON encoding of the record,
// equal records always yield equal tags
func ETag(record Record) string {
	data, err := json.Marshal(record)
	if err != nil {
		return ""
	}
	return strconv.Quote(strconv.FormatUint(xxhash.Sum64(data), 16))
}

func containsFold(term string, values ...string) bool {
	return common.ContainsFold(term, values...)
}
