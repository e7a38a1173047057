package game

import "fmt"

// TableConfig fixes the parameters of a table for the lifetime of a match.
type TableConfig struct {
	Variant       string
	Seats         int
	StartingStack int
	SmallBlind    int
	BigBlind      int
	MoveTimeMS    int
}

// DefaultConfig returns the parameters used when nothing is overridden.
func DefaultConfig() TableConfig {
	return TableConfig{
		Variant:       "nlhe",
		Seats:         6,
		StartingStack: 10000,
		SmallBlind:    50,
		BigBlind:      100,
		MoveTimeMS:    3000,
	}
}

// Validate reports the first structurally invalid parameter.
func (c TableConfig) Validate() error {
	if c.Variant != "nlhe" {
		return fmt.Errorf("unsupported variant %q", c.Variant)
	}
	if c.Seats < 2 || c.Seats > 9 {
		return fmt.Errorf("seats must be between 2 and 9, got %d", c.Seats)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive, got %d", c.StartingStack)
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive, got %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.SmallBlind > c.BigBlind {
		return fmt.Errorf("small blind %d exceeds big blind %d", c.SmallBlind, c.BigBlind)
	}
	if c.BigBlind >= c.StartingStack {
		return fmt.Errorf("big blind %d must be below the starting stack %d", c.BigBlind, c.StartingStack)
	}
	// Zero disables the move timer; turns then advance via skip commands.
	if c.MoveTimeMS < 0 {
		return fmt.Errorf("move time must not be negative, got %dms", c.MoveTimeMS)
	}
	return nil
}
