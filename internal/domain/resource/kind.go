package resource

type Kind string

const (
	KindGarage    Kind = "GARAGE"
	KindResidence Kind = "RESIDENCE"
	KindLot       Kind = "LOT"
)

func NewKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindGarage, KindResidence, KindLot:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) String() string { return string(k) }
