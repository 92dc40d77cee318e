package intent

import (
	"strconv"
	"strings"

	"chat_agent/src/model"

	"github.com/bytedance/sonic"
)

// NotSpecified is the display marker substituted for unset or empty slots.
const NotSpecified = "Not Specified"

// Value is one slot's state. Unset is explicit, not an absent key: a fresh
// record carries every schema slot with Set=false.
type Value struct {
	Set  bool
	Text string   // scalar slots
	List []string // special_requests only
}

// Record is the live slot-filling state for one intent during a single turn.
// Its key set is always exactly the schema's slot names.
type Record struct {
	category model.Category
	order    []string
	slots    map[string]Value
}

// NewRecord creates a fresh record for the category with all slots unset.
func NewRecord(category model.Category) (*Record, error) {
	order, err := SchemaFor(category)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]Value, len(order))
	for _, name := range order {
		slots[name] = Value{}
	}

	return &Record{category: category, order: order, slots: slots}, nil
}

// Category returns the record's intent category.
func (r *Record) Category() model.Category {
	return r.category
}

// Slots returns the ordered slot names.
func (r *Record) Slots() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the current value of a slot.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.slots[name]
	return v, ok
}

// Merge overlays extraction output onto the record. Only keys present in the
// input overwrite; everything else stays unset. Keys outside the schema are
// skipped, not rejected, to stay resilient to prompt drift. Returns the
// skipped key names.
func (r *Record) Merge(values map[string]any) []string {
	var skipped []string
	for key, raw := range values {
		if _, ok := r.slots[key]; !ok {
			skipped = append(skipped, key)
			continue
		}

		if key == SlotSpecialRequests {
			r.slots[key] = Value{Set: true, List: coerceList(raw)}
			continue
		}
		r.slots[key] = Value{Set: true, Text: coerceScalar(raw)}
	}
	return skipped
}

// Values returns the pre-normalization view: nil for unset, string for
// scalars, []string for special_requests. This is what the follow-up prompt
// sees, so genuinely missing values still drive questions.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.order))
	for _, name := range r.order {
		v := r.slots[name]
		switch {
		case !v.Set:
			out[name] = nil
		case name == SlotSpecialRequests:
			out[name] = v.List
		default:
			out[name] = v.Text
		}
	}
	return out
}

// Display returns the presentation copy with unset and empty slots replaced
// by the NotSpecified marker.
func (r *Record) Display() map[string]any {
	return NormalizeDisplay(r.Values())
}

// NormalizeDisplay replaces nil, empty-string and empty-sequence values with
// the NotSpecified marker. Idempotent: normalized input passes through
// unchanged.
func NormalizeDisplay(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, v := range values {
		switch t := v.(type) {
		case nil:
			out[key] = NotSpecified
		case string:
			if t == "" {
				out[key] = NotSpecified
			} else {
				out[key] = t
			}
		case []string:
			if len(t) == 0 {
				out[key] = NotSpecified
			} else {
				out[key] = t
			}
		case []any:
			if len(t) == 0 {
				out[key] = NotSpecified
			} else {
				out[key] = t
			}
		default:
			out[key] = v
		}
	}
	return out
}

// PromptJSON serializes the pre-normalization record in schema order with
// null markers for unset slots, 4-space indented, for the follow-up prompt.
func (r *Record) PromptJSON() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, name := range r.order {
		v := r.slots[name]
		b.WriteString("    ")
		b.WriteString(strconv.Quote(name))
		b.WriteString(": ")
		switch {
		case !v.Set:
			b.WriteString("null")
		case name == SlotSpecialRequests:
			b.WriteString(encodeJSON(v.List))
		default:
			b.WriteString(encodeJSON(v.Text))
		}
		if i < len(r.order)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func encodeJSON(v any) string {
	data, err := sonic.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

// coerceScalar renders any JSON scalar the model returned as a string value.
// Numbers lose trailing zeros ("2", not "2.0"); everything else falls back to
// its JSON encoding.
func coerceScalar(raw any) string {
	switch t := raw.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return strings.Trim(encodeJSON(t), `"`)
	}
}

// coerceList renders the special_requests payload as a string slice whatever
// shape the model chose.
func coerceList(raw any) []string {
	switch t := raw.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, coerceScalar(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{coerceScalar(t)}
	}
}
