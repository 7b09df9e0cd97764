package youtube

import (
	"context"
	"fmt"

	"github.com/spetersoncode/learnpath/tool"
)

// Tool names exposed to the model.
const (
	ToolSearch           = "search"
	ToolCreateCollection = "create_collection"
	ToolAddItems         = "add_items"
)

// SearchArgs are the arguments of the search tool.
type SearchArgs struct {
	Query      string `json:"query" desc:"Search terms for the videos to find" required:"true"`
	MaxResults int    `json:"max_results" desc:"Maximum number of videos to return" default:"5"`
}

// CreateCollectionArgs are the arguments of the create_collection tool.
type CreateCollectionArgs struct {
	Title       string `json:"title" desc:"Title of the new public playlist" required:"true"`
	Description string `json:"description" desc:"Playlist description" default:"AI-Generated Learning Path"`
}

// AddItemsArgs are the arguments of the add_items tool.
type AddItemsArgs struct {
	CollectionID string   `json:"collection_id" desc:"Playlist ID returned by create_collection" required:"true"`
	ItemIDs      []string `json:"item_ids" desc:"Video IDs to add, in order" required:"true"`
}

// Tools returns the YouTube tool registrations backed by c.
// Every failure is returned to the model as an error payload.
func Tools(c *Client) []tool.Registration {
	return []tool.Registration{
		tool.Func(ToolSearch,
			"Searches YouTube for videos. Returns each video's id, title and description.",
			func(ctx context.Context, args SearchArgs) tool.Result {
				videos, err := c.Search(ctx, args.Query, args.MaxResults)
				if err != nil {
					c.logger.Warn("youtube search failed", "query", args.Query, "error", err)
					return tool.Failf("Failed to search YouTube: %v", err)
				}
				return tool.Ok(map[string]any{"videos": videos})
			}),
		tool.Func(ToolCreateCollection,
			"Creates a new public YouTube playlist. Returns the ID of the new playlist.",
			func(ctx context.Context, args CreateCollectionArgs) tool.Result {
				id, err := c.CreatePlaylist(ctx, args.Title, args.Description)
				if err != nil {
					c.logger.Warn("youtube create playlist failed", "title", args.Title, "error", err)
					return tool.Failf("Failed to create playlist: %v", err)
				}
				return tool.Ok(map[string]string{"collection_id": id})
			}),
		tool.Func(ToolAddItems,
			"Adds videos to a YouTube playlist using their video IDs.",
			func(ctx context.Context, args AddItemsArgs) tool.Result {
				n, err := c.AddToPlaylist(ctx, args.CollectionID, args.ItemIDs)
				if err != nil {
					c.logger.Warn("youtube add videos failed", "playlist", args.CollectionID, "added", n, "error", err)
					return tool.Failf("Failed to add videos to playlist after %d of %d: %v", n, len(args.ItemIDs), err)
				}
				return tool.Ok(map[string]string{
					"status":  "success",
					"message": fmt.Sprintf("Added %d videos to playlist %s.", n, args.CollectionID),
				})
			}),
	}
}
