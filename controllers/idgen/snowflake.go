package idgen

import (
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/exp/rand"
)

var node *snowflake.Node

var (
	rngMu sync.Mutex
	rng   *rand.Rand
)

// Ambiguous characters (0/O, 1/I) are left out so printed QR labels stay
// readable to humans re-typing them.
const qrCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func Init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to init Snowflake: %v", err)
	}
	rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

func GenerateID() int64 {
	return node.Generate().Int64()
}

// JobNumber returns a human-facing job number like AJ-2K4F9Z....
func JobNumber() string {
	return "AJ-" + node.Generate().Base36()
}

// QRCode returns a scannable code like PART-ABC123. Uniqueness is enforced
// by the database; collisions at 6 chars are rare enough to surface as a
// create error rather than retried here.
func QRCode(prefix string) string {
	rngMu.Lock()
	defer rngMu.Unlock()
	b := make([]byte, 6)
	for i := range b {
		b[i] = qrCharset[rng.Intn(len(qrCharset))]
	}
	return prefix + "-" + string(b)
}
