package registry

// Domain is a base entity category whose canonical identifier list other
// endpoints key off.
type Domain string

const (
	DomainGame   Domain = "game"
	DomainPlayer Domain = "player"
	DomainTeam   Domain = "team"
)

func (d Domain) Valid() bool {
	switch d {
	case DomainGame, DomainPlayer, DomainTeam:
		return true
	}
	return false
}

// Domains lists every registry domain in a fixed order.
func Domains() []Domain {
	return []Domain{DomainGame, DomainPlayer, DomainTeam}
}

// Snapshot is the canonical identifier list for one domain at a point in
// time. Column records which raw column spelling the identifiers were read
// from, so projection lineage stays auditable.
type Snapshot struct {
	Domain Domain
	Column string
	IDs    []string
}

func (s Snapshot) Empty() bool {
	return len(s.IDs) == 0
}
