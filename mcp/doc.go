// Package mcp connects learnpath to the Model Context Protocol.
//
// In the client direction, [Connect] attaches to a remote MCP server over
// streamable HTTP (the Google Drive and Notion integrations) and exposes its
// tools as [tool.Registration] values whose names carry an integration
// prefix, so tools from several servers never collide. Remote failures are
// returned to the model as error payloads.
//
// In the server direction, [NewServer] and [ServeStdio] expose a
// [tool.Registry] to other MCP clients.
//
//	drive, err := mcp.Connect(ctx, mcp.Drive, os.Getenv("DRIVE_PIPEDREAM_URL"))
//	if err != nil {
//	    return err
//	}
//	defer drive.Close()
//	registry.RegisterAll(drive.Registrations()...)
package mcp
