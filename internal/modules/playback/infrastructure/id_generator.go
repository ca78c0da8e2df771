package infrastructure

import (
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// sequenceMask covers the low 12 bits of a snowflake (the per-millisecond sequence).
const sequenceMask = 1<<12 - 1

// SnowflakeGenerator issues time-ordered snowflake IDs for web sessions.
type SnowflakeGenerator struct {
	sequence atomic.Uint64
	now      func() time.Time
}

// NewSnowflakeGenerator creates a new SnowflakeGenerator.
func NewSnowflakeGenerator() *SnowflakeGenerator {
	return &SnowflakeGenerator{now: time.Now}
}

// NewID returns a new snowflake ID.
func (g *SnowflakeGenerator) NewID() snowflake.ID {
	seq := g.sequence.Add(1) & sequenceMask
	return snowflake.New(g.now()) | snowflake.ID(seq)
}

var _ ports.IDGenerator = (*SnowflakeGenerator)(nil)
