package analysis

// Task identifies one of the three analysis pipelines. The values are wire
// literals: they appear in request fingerprints, prompts and responses.
type Task string

const (
	TaskClimate  Task = "climate_guard"
	TaskBusiness Task = "business_shield"
	TaskCyber    Task = "cyberprotect"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

type Tone string

const (
	ToneConcise   Tone = "concise"
	ToneDetailed  Tone = "detailed"
	ToneTechnical Tone = "technical"
)

type CostMode string

const (
	CostCheapFast CostMode = "cheap_fast"
	CostBalanced  CostMode = "balanced"
	CostQuality   CostMode = "quality"
)

const (
	DefaultLocale   = "fr-TN"
	DefaultMaxRecos = 5
)

// Constraints tune the generated output. Zero values are filled by
// ApplyDefaults before validation.
type Constraints struct {
	MaxRecos int      `json:"max_recos"`
	Tone     Tone     `json:"tone"`
	CostMode CostMode `json:"cost_mode"`
}

func (c *Constraints) ApplyDefaults() {
	if c.MaxRecos == 0 {
		c.MaxRecos = DefaultMaxRecos
	}
	if c.Tone == "" {
		c.Tone = ToneConcise
	}
	if c.CostMode == "" {
		c.CostMode = CostCheapFast
	}
}

type Sector string

const (
	SectorRetail        Sector = "retail"
	SectorAgri          Sector = "agri"
	SectorLogistics     Sector = "logistics"
	SectorManufacturing Sector = "manufacturing"
	SectorServices      Sector = "services"
)

type ClimateInputs struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	HorizonDays int     `json:"horizonDays"`
	Sector      Sector  `json:"sector"`
	Context     string  `json:"context,omitempty"`
}

type SalesEntry struct {
	Date    string  `json:"date"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
}

type StockEntry struct {
	SKU      string `json:"sku"`
	Qty      int    `json:"qty"`
	LeadDays int    `json:"leadDays"`
}

type SupplierEntry struct {
	Name       string  `json:"name"`
	OnTimeRate float64 `json:"onTimeRate"`
	Region     string  `json:"region"`
}

type BusinessInputs struct {
	Sales            []SalesEntry    `json:"sales"`
	Stock            []StockEntry    `json:"stock"`
	Suppliers        []SupplierEntry `json:"suppliers"`
	EnergyCostPerKwh *float64        `json:"energyCostPerKwh,omitempty"`
	CashOnHand       *float64        `json:"cashOnHand,omitempty"`
}

type EventType string

const (
	EventEmail EventType = "email"
	EventURL   EventType = "url"
	EventLog   EventType = "log"
)

type CyberEvent struct {
	ID       string         `json:"id"`
	Type     EventType      `json:"type"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type CyberInputs struct {
	Events []CyberEvent `json:"events"`
}

type ClimateRequest struct {
	Inputs      ClimateInputs `json:"inputs"`
	Locale      string        `json:"locale"`
	Constraints Constraints   `json:"constraints"`
}

type BusinessRequest struct {
	Inputs      BusinessInputs `json:"inputs"`
	Locale      string         `json:"locale"`
	Constraints Constraints    `json:"constraints"`
}

type CyberRequest struct {
	Inputs      CyberInputs `json:"inputs"`
	Locale      string      `json:"locale"`
	Constraints Constraints `json:"constraints"`
}

type Finding struct {
	Title      string  `json:"title"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`
}

type Recommendation struct {
	Action       string  `json:"action"`
	Impact       string  `json:"impact"`
	EstSavingUSD float64 `json:"est_saving_usd"`
}

type ActionType string

const (
	ActionBlock      ActionType = "block"
	ActionQuarantine ActionType = "quarantine"
	ActionIgnore     ActionType = "ignore"
	ActionOptimize   ActionType = "optimize"
	ActionAlert      ActionType = "alert"
)

type Classification string

const (
	ClassSafe       Classification = "safe"
	ClassSuspicious Classification = "suspicious"
	ClassMalicious  Classification = "malicious"
)

type Action struct {
	Type           ActionType     `json:"type"`
	Reason         string         `json:"reason"`
	EventID        string         `json:"event_id,omitempty"`
	Classification Classification `json:"classification,omitempty"`
}

// Response is the shared result envelope. Which optional fields are required
// depends on the task; ValidateResponse enforces the per-task sets.
type Response struct {
	OK              bool             `json:"ok"`
	Task            Task             `json:"task"`
	RiskLevel       RiskLevel        `json:"risk_level,omitempty"`
	Findings        []Finding        `json:"findings,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Score           *int             `json:"score,omitempty"`
	Actions         []Action         `json:"actions,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}
