package model

// Building is a campus building.
type Building struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SecurityPoint is a manned desk inside a building where found items are
// physically stored while they wait to be claimed.
type SecurityPoint struct {
	ID         int64  `json:"id"`
	BuildingID int64  `json:"building_id"`
	Name       string `json:"name"`
}
