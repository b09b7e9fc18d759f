package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// identityHash builds the dedupe key for a record from the fields that
// identify the same offer: name, URL, current price and currency.
func identityHash(record ProductRecord) string {
	price := ""
	if record.PriceCurrent != nil {
		price = strconv.FormatFloat(*record.PriceCurrent, 'f', -1, 64)
	}
	key := strings.ToLower(record.Name + "|" + record.URL + "|" + price + "|" + record.Currency)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Dedupe removes records whose identity hash was already seen, keeping
// the first occurrence. Order of the survivors is preserved.
func Dedupe(records []ProductRecord) []ProductRecord {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]struct{}, len(records))
	result := make([]ProductRecord, 0, len(records))
	for _, record := range records {
		hash := identityHash(record)
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		result = append(result, record)
	}
	return result
}
