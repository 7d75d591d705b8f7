package analysis

import (
	"fmt"
	"regexp"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validSector(s Sector) bool {
	switch s {
	case SectorRetail, SectorAgri, SectorLogistics, SectorManufacturing, SectorServices:
		return true
	}
	return false
}

func validEventType(t EventType) bool {
	switch t {
	case EventEmail, EventURL, EventLog:
		return true
	}
	return false
}

func validTone(t Tone) bool {
	switch t {
	case ToneConcise, ToneDetailed, ToneTechnical:
		return true
	}
	return false
}

func validCostMode(m CostMode) bool {
	switch m {
	case CostCheapFast, CostBalanced, CostQuality:
		return true
	}
	return false
}

func validateConstraints(c Constraints, vs []Violation) []Violation {
	if c.MaxRecos < 1 || c.MaxRecos > 10 {
		vs = append(vs, Violation{"constraints.max_recos", "must be between 1 and 10"})
	}
	if !validTone(c.Tone) {
		vs = append(vs, Violation{"constraints.tone", "must be one of concise, detailed, technical"})
	}
	if !validCostMode(c.CostMode) {
		vs = append(vs, Violation{"constraints.cost_mode", "must be one of cheap_fast, balanced, quality"})
	}
	return vs
}

func (r *ClimateRequest) ApplyDefaults() {
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	r.Constraints.ApplyDefaults()
}

func (r *ClimateRequest) Validate() error {
	var vs []Violation
	in := r.Inputs
	if in.Lat < -90 || in.Lat > 90 {
		vs = append(vs, Violation{"inputs.lat", "must be between -90 and 90"})
	}
	if in.Lon < -180 || in.Lon > 180 {
		vs = append(vs, Violation{"inputs.lon", "must be between -180 and 180"})
	}
	if in.HorizonDays < 1 || in.HorizonDays > 10 {
		vs = append(vs, Violation{"inputs.horizonDays", "must be between 1 and 10"})
	}
	if !validSector(in.Sector) {
		vs = append(vs, Violation{"inputs.sector", "must be one of retail, agri, logistics, manufacturing, services"})
	}
	vs = validateConstraints(r.Constraints, vs)
	if len(vs) > 0 {
		return &ValidationError{Violations: vs}
	}
	return nil
}

func (r *BusinessRequest) ApplyDefaults() {
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	r.Constraints.ApplyDefaults()
}

func (r *BusinessRequest) Validate() error {
	var vs []Violation
	in := r.Inputs
	if len(in.Sales) == 0 {
		vs = append(vs, Violation{"inputs.sales", "must contain at least one entry"})
	}
	for i, s := range in.Sales {
		path := fmt.Sprintf("inputs.sales[%d]", i)
		if !dateRe.MatchString(s.Date) {
			vs = append(vs, Violation{path + ".date", "must match YYYY-MM-DD"})
		}
		if s.Qty < 0 {
			vs = append(vs, Violation{path + ".qty", "must not be negative"})
		}
		if s.Revenue < 0 {
			vs = append(vs, Violation{path + ".revenue", "must not be negative"})
		}
	}
	if len(in.Stock) == 0 {
		vs = append(vs, Violation{"inputs.stock", "must contain at least one entry"})
	}
	for i, s := range in.Stock {
		path := fmt.Sprintf("inputs.stock[%d]", i)
		if s.SKU == "" {
			vs = append(vs, Violation{path + ".sku", "is required"})
		}
		if s.Qty < 0 {
			vs = append(vs, Violation{path + ".qty", "must not be negative"})
		}
		if s.LeadDays < 0 {
			vs = append(vs, Violation{path + ".leadDays", "must not be negative"})
		}
	}
	if len(in.Suppliers) == 0 {
		vs = append(vs, Violation{"inputs.suppliers", "must contain at least one entry"})
	}
	for i, s := range in.Suppliers {
		path := fmt.Sprintf("inputs.suppliers[%d]", i)
		if s.Name == "" {
			vs = append(vs, Violation{path + ".name", "is required"})
		}
		if s.OnTimeRate < 0 || s.OnTimeRate > 1 {
			vs = append(vs, Violation{path + ".onTimeRate", "must be between 0 and 1"})
		}
	}
	if in.EnergyCostPerKwh != nil && *in.EnergyCostPerKwh < 0 {
		vs = append(vs, Violation{"inputs.energyCostPerKwh", "must not be negative"})
	}
	if in.CashOnHand != nil && *in.CashOnHand < 0 {
		vs = append(vs, Violation{"inputs.cashOnHand", "must not be negative"})
	}
	vs = validateConstraints(r.Constraints, vs)
	if len(vs) > 0 {
		return &ValidationError{Violations: vs}
	}
	return nil
}

func (r *CyberRequest) ApplyDefaults() {
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	r.Constraints.ApplyDefaults()
}

func (r *CyberRequest) Validate() error {
	var vs []Violation
	if len(r.Inputs.Events) == 0 {
		vs = append(vs, Violation{"inputs.events", "must contain at least one entry"})
	}
	for i, ev := range r.Inputs.Events {
		path := fmt.Sprintf("inputs.events[%d]", i)
		if ev.ID == "" {
			vs = append(vs, Violation{path + ".id", "is required"})
		}
		if !validEventType(ev.Type) {
			vs = append(vs, Violation{path + ".type", "must be one of email, url, log"})
		}
		if ev.Content == "" {
			vs = append(vs, Violation{path + ".content", "is required"})
		}
	}
	vs = validateConstraints(r.Constraints, vs)
	if len(vs) > 0 {
		return &ValidationError{Violations: vs}
	}
	return nil
}
