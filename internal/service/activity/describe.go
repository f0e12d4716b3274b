package activity

import "github.com/plantae/plantae-backend/internal/domain"

// Description is the human-readable rendering of an action kind.
type Description struct {
	Icon  string
	Label string
}

// descriptions maps each known action to its rendering.
var descriptions = map[domain.ActivityAction]Description{
	domain.ActivityActionCreate:  {Icon: "➕", Label: "registered"},
	domain.ActivityActionUpdate:  {Icon: "✏️", Label: "updated"},
	domain.ActivityActionWater:   {Icon: "💧", Label: "watered"},
	domain.ActivityActionDelete:  {Icon: "🗑️", Label: "deleted"},
	domain.ActivityActionRestore: {Icon: "♻️", Label: "restored"},
}

// Describe maps a record's action to its icon and label. Unknown actions
// pass through their raw tag unchanged rather than failing; the ledger must
// render every record the store hands back.
func Describe(rec domain.ActivityRecord) Description {
	if d, ok := descriptions[rec.Action]; ok {
		return d
	}
	return Description{Icon: "🗒️", Label: rec.Action.String()}
}
