package api

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hazyhaar/scrutin/pkg/election"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPResources exposes the resource-style reads under the
// elections-canada:// scheme: the full riding list, one riding by code,
// and one province's ridings.
func RegisterMCPResources(srv *server.MCPServer, eng *election.Engine) {
	srv.AddResource(
		mcp.NewResource("elections-canada://ridings", "All ridings",
			mcp.WithResourceDescription("Every riding in the 2021 Canadian federal election: code, English name, province."),
			mcp.WithMIMEType("application/json"),
		),
		func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return jsonContents(req.Params.URI, eng.ListDistricts())
		},
	)

	srv.AddResourceTemplate(
		mcp.NewResourceTemplate("elections-canada://riding/{code}", "Riding by code",
			mcp.WithTemplateDescription("Full detail for one riding, including its vote distribution."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			code, err := strconv.Atoi(strings.TrimPrefix(req.Params.URI, "elections-canada://riding/"))
			if err != nil {
				return nil, err
			}
			d, err := eng.District(code)
			if err != nil {
				return nil, err
			}
			return jsonContents(req.Params.URI, d)
		},
	)

	srv.AddResourceTemplate(
		mcp.NewResourceTemplate("elections-canada://province/{code}", "Province ridings",
			mcp.WithTemplateDescription("All ridings of one province, by code or free-form name."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			province := strings.TrimPrefix(req.Params.URI, "elections-canada://province/")
			bucket, err := eng.RegionDistricts(province)
			if err != nil {
				return nil, err
			}
			return jsonContents(req.Params.URI, bucket)
		},
	)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
