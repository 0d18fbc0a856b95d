package relay

import (
	"sync"

	"evocpi/ocpi/client"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCapacity = 256

type cached struct {
	token  string
	client *client.Client
}

// Clients caches one outbound client per partner; the least recently used
// entry is evicted once capacity is reached
type Clients struct {
	mutex    sync.Mutex
	capacity int
	entries  *lru.Cache[string, *cached]
}

func NewClients(capacity int) *Clients {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	// New fails only for a non-positive size
	entries, _ := lru.New[string, *cached](capacity)
	return &Clients{
		capacity: capacity,
		entries:  entries,
	}
}

// GetOrCreate returns the cached client for the partner, building it with
// create when absent or when the partner's token has changed
func (c *Clients) GetOrCreate(partyId, token string, create func() *client.Client) *client.Client {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, ok := c.entries.Get(partyId); ok && entry.token == token {
		return entry.client
	}
	entry := &cached{token: token, client: create()}
	c.entries.Add(partyId, entry)
	return entry.client
}

func (c *Clients) Remove(partyId string) {
	c.entries.Remove(partyId)
}

func (c *Clients) Len() int {
	return c.entries.Len()
}
