package hierarchy

// joinClusters fills NextClusterCount and PriorClusterCount. Both are
// lookups over values already on the records.
func joinClusters(g *Graph, records []Record) {
	for i := range records {
		r := &records[i]
		r.NextClusterCount = max(len(g.Children(r.Node)), 1)
		r.PriorClusterCount = r.NodeClusterCount
	}
}
