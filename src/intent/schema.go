package intent

import (
	"fmt"
	"strings"

	"chat_agent/src/model"
)

// SlotSpecialRequests is the multi-valued slot present in every schema. Its
// value is always a sequence of strings, never a scalar.
const SlotSpecialRequests = "special_requests"

// schemas maps each slot-based category to its ordered slot names. The order
// is part of the contract: it drives prompt serialization and display output.
var schemas = map[model.Category][]string{
	model.CategoryDining: {
		"date", "time", "location", "budget", "cuisine", "party_size", SlotSpecialRequests,
	},
	model.CategoryTravel: {
		"location_from", "location_to", "start_date", "end_date", "mode", "members", "budget", SlotSpecialRequests,
	},
	model.CategoryCabBooking: {
		"pickup_location", "drop_off_location", "members", "budget", SlotSpecialRequests,
	},
	model.CategoryGifting: {
		"recipient", "occasion", "budget", SlotSpecialRequests,
	},
}

// SchemaFor returns the ordered slot names for a slot-based category.
func SchemaFor(category model.Category) ([]string, error) {
	slots, ok := schemas[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrNoMatchingIntent, category)
	}
	out := make([]string, len(slots))
	copy(out, slots)
	return out, nil
}

// KeyList renders slot names as the bracketed list the entity-extraction
// prompt expects, e.g. ['date', 'time', 'location'].
func KeyList(slots []string) string {
	quoted := make([]string, len(slots))
	for i, s := range slots {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
