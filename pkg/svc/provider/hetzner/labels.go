package hetzner

// Labels written to servers created by geostack.
const (
	// LabelOwned marks a server as created by geostack. Value is always "true".
	LabelOwned = "geostack.owned"

	// LabelNode holds the logical node name.
	LabelNode = "geostack.node"
)

// NodeLabels returns the label set for a node. Labels already on the server
// are kept unless they collide with ours.
func NodeLabels(existing map[string]string, nodeName string) map[string]string {
	labels := make(map[string]string, len(existing)+2)
	for key, value := range existing {
		labels[key] = value
	}

	labels[LabelOwned] = "true"

	if nodeName != "" {
		labels[LabelNode] = nodeName
	}

	return labels
}
