package models

// ScanRequest is the HTTP-facing scan request. Defined in domain for
// consistency and reuse; validation and defaults applied at the handler.
type ScanRequest struct {
	Instruments     []string  `query:"instruments" json:"instruments" validate:"required,min=1,dive,required"`
	Period          int       `query:"period" json:"period" default:"14" validate:"gte=2,lte=100"`
	Oversold        float64   `query:"oversold" json:"oversold" default:"30" validate:"gt=0,lt=100"`
	Overbought      float64   `query:"overbought" json:"overbought" default:"70" validate:"gt=0,lt=100"`
	Targets         []float64 `json:"targets" default:"[0.015,0.02]" validate:"min=1,max=2,dive,gt=0"`
	// zero falls back to each horizon's configured lookahead
	LookforwardBars int `query:"lookforwardBars" json:"lookforwardBars,omitempty" validate:"gte=0,lte=500"`
	Mode            string    `query:"mode" json:"mode" default:"edge" validate:"oneof=edge sustained"`
	Direction       string    `query:"direction" json:"direction" default:"oversold" validate:"oneof=oversold overbought"`
	Horizon         string    `query:"horizon" json:"horizon" default:"single" validate:"oneof=single dual"`
	MinWinRate      float64   `query:"minWinRate" json:"minWinRate,omitempty" validate:"gte=0,lte=100"`
	MinSignals      int       `query:"minSignals" json:"minSignals,omitempty" validate:"gte=0"`
	InZoneOnly      bool      `query:"inZoneOnly" json:"inZoneOnly,omitempty"`
}
