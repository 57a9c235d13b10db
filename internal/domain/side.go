package domain

import "fmt"

// Side represents which side of the market an entry belongs to.
type Side int

const (
	// SideBid resting order to buy.
	SideBid Side = iota
	// SideAsk resting order to sell.
	SideAsk
	// SideAskSale trade record where the selling side is settled.
	SideAskSale
	// SideBidSale trade record where the buying side is settled.
	SideBidSale
)

// side string constants to avoid magic strings
const (
	sideStringBid     = "bid"
	sideStringAsk     = "ask"
	sideStringAskSale = "asksale"
	sideStringBidSale = "bidsale"
)

// ParseSide converts a string into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case sideStringBid:
		return SideBid, nil
	case sideStringAsk:
		return SideAsk, nil
	case sideStringAskSale:
		return SideAskSale, nil
	case sideStringBidSale:
		return SideBidSale, nil
	}
	return 0, fmt.Errorf("unknown side: %q", s)
}

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideBid:
		return sideStringBid
	case SideAsk:
		return sideStringAsk
	case SideAskSale:
		return sideStringAskSale
	case SideBidSale:
		return sideStringBidSale
	default:
		return "unknown"
	}
}

// IsValid checks if the Side value is valid.
func (s Side) IsValid() bool {
	switch s {
	case SideBid, SideAsk, SideAskSale, SideBidSale:
		return true
	}
	return false
}

// IsResting reports whether the side denotes a resting order rather than a trade.
func (s Side) IsResting() bool {
	return s == SideBid || s == SideAsk
}
