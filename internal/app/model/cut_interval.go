package model

import "fmt"

// CutInterval is a time range of the source media that is kept in the output.
type CutInterval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (c CutInterval) Duration() float64 {
	return c.End - c.Start
}

func (c CutInterval) String() string {
	return fmt.Sprintf("%.2fs-%.2fs", c.Start, c.End)
}
