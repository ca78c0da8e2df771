package ports

import "github.com/disgoorg/snowflake/v2"

// IDGenerator hands out unique session IDs.
type IDGenerator interface {
	NewID() snowflake.ID
}
