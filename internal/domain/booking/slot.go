package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const slotNumeralWidth = 3

var (
	zoneCodeRegex = regexp.MustCompile(`^[A-Z]{1,3}$`)
	slotIDRegex   = regexp.MustCompile(`^([A-Z]{1,3}) ?([0-9]{1,6})$`)
)

// ZoneCode names a sub-area of a resource, 1-3 uppercase letters.
type ZoneCode string

func NewZoneCode(s string) (ZoneCode, error) {
	s = strings.TrimSpace(s)
	if !zoneCodeRegex.MatchString(s) {
		return "", ErrInvalidZoneCode
	}
	return ZoneCode(s), nil
}

func (z ZoneCode) String() string {
	return string(z)
}

// SlotID identifies one interchangeable unit of a zone, e.g. "A 001".
type SlotID struct {
	zone    ZoneCode
	numeral int
}

func NewSlotID(zone ZoneCode, numeral int) (SlotID, error) {
	if _, err := NewZoneCode(zone.String()); err != nil {
		return SlotID{}, err
	}
	if numeral < 1 {
		return SlotID{}, ErrInvalidSlot
	}
	return SlotID{zone: zone, numeral: numeral}, nil
}

func ParseSlotID(s string) (SlotID, error) {
	m := slotIDRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return SlotID{}, ErrInvalidSlot
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return SlotID{}, ErrInvalidSlot
	}
	return NewSlotID(ZoneCode(m[1]), n)
}

func (s SlotID) Zone() ZoneCode { return s.zone }
func (s SlotID) Numeral() int   { return s.numeral }

func (s SlotID) IsZero() bool {
	return s.zone == "" && s.numeral == 0
}

func (s SlotID) String() string {
	return fmt.Sprintf("%s %0*d", s.zone, slotNumeralWidth, s.numeral)
}
