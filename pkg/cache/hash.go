package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashEdges fingerprints an edge list. Order matters: it decides branch
// order and with it every y coordinate.
func HashEdges(edges []hierarchy.Edge) string {
	h := sha256.New()
	var buf []byte
	for _, e := range edges {
		// Length prefixes keep ("ab","c") and ("a","bc") apart.
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(len(e.Child)), 10)
		buf = append(buf, ':')
		buf = append(buf, e.Child...)
		buf = strconv.AppendInt(buf, int64(len(e.Parent)), 10)
		buf = append(buf, ':')
		buf = append(buf, e.Parent...)
		buf = append(buf, '\n')
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// digestKey returns "<namespace>:<sha256 of the JSON-encoded parts>".
func digestKey(namespace string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Key parts are plain option structs; this cannot fail.
		panic("cache: encode key parts: " + err.Error())
	}
	return namespace + ":" + Hash(data)
}
