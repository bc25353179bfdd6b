package entities

// MaxRules is the number of rule slots a device offers, one per possible id.
const MaxRules = 32

type Rule struct {
	ID             int     `json:"id" yaml:"id"`
	RepeatDays     int     `json:"repeat_days" yaml:"repeat_days"`
	StartInMinutes int     `json:"start_in_minutes" yaml:"start_in_minutes"`
	EndInMinutes   int     `json:"end_in_minutes" yaml:"end_in_minutes"`
	StartDate      string  `json:"start_date" yaml:"start_date"`
	RelayIndex     int     `json:"relay_index" yaml:"relay_index"`
	RelayValue     bool    `json:"relay_value" yaml:"relay_value"`
	ReverseOnFalse bool    `json:"reverse_on_false" yaml:"reverse_on_false"`
	Logic          int     `json:"logic" yaml:"logic"`
	TempMin        float64 `json:"temp_min" yaml:"temp_min"`
	TempMax        float64 `json:"temp_max" yaml:"temp_max"`
	HumMin         float64 `json:"hum_min" yaml:"hum_min"`
	HumMax         float64 `json:"hum_max" yaml:"hum_max"`
	LightMin       int     `json:"light_min" yaml:"light_min"`
	LightMax       int     `json:"light_max" yaml:"light_max"`
}

// RuleSet keeps rules in update order, not id order.
type RuleSet []Rule

// Index returns the position of the first rule with the given id, or -1.
func (rs RuleSet) Index(id int) int {
	for i, rule := range rs {
		if rule.ID == id {
			return i
		}
	}
	return -1
}

// Upsert replaces the rule sharing the same id in place or appends it.
func (rs RuleSet) Upsert(rule Rule) RuleSet {
	if i := rs.Index(rule.ID); i >= 0 {
		rs[i] = rule
		return rs
	}
	return append(rs, rule)
}

// Remove drops every rule carrying the given id.
func (rs RuleSet) Remove(id int) RuleSet {
	kept := make(RuleSet, 0, len(rs))
	for _, rule := range rs {
		if rule.ID != id {
			kept = append(kept, rule)
		}
	}
	return kept
}

func (rs RuleSet) Clone() RuleSet {
	if rs == nil {
		return RuleSet{}
	}
	clone := make(RuleSet, len(rs))
	copy(clone, rs)
	return clone
}
