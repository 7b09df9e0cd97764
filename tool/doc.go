// Package tool provides the typed tool registry handed to the agent.
//
// A tool is a name, a description, a JSON Schema for its parameters and a
// [Handler]. Handlers never return Go errors: they return a [Result] that is
// either [Ok] with a payload or [Fail] with a reason, serialized for the
// model as the payload or as {"error": reason}.
//
// # Basic Usage
//
// Define tool arguments as a struct with tags, then use Func:
//
//	type SearchArgs struct {
//	    Query      string `json:"query" desc:"Search terms" required:"true"`
//	    MaxResults int    `json:"max_results" desc:"Result count" default:"5"`
//	}
//
//	registry := tool.NewRegistry()
//	err := registry.RegisterAll(
//	    tool.Func("search", "Search for videos",
//	        func(ctx context.Context, args SearchArgs) tool.Result {
//	            return tool.Ok(map[string]any{"videos": find(args.Query, args.MaxResults)})
//	        }),
//	)
//	if err == nil {
//	    err = registry.Validate()
//	}
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Struct Tags
//
//	json:"name"      - Property name
//	desc:"text"      - Description for the model
//	required:"true"  - Mark field as required
//	enum:"a,b,c"     - Allowed values (comma-separated)
//	default:"value"  - Default value applied when the argument is absent
package tool
