package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jtd-infer/internal/mcp/tools"
	"github.com/usestring/jtd-infer/pkg/jtd"
)

// Resource URI scheme: jtd://
// Supported URIs:
//   jtd://number-types
//   jtd://number-types/{name}

const resourceScheme = "jtd://"

// NumberTypeInfo describes one numeric type inference can emit.
type NumberTypeInfo struct {
	Name     string   `json:"name"`
	Integral bool     `json:"integral"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// registerResources registers resources and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         resourceScheme + "number-types",
		Name:        "Number Types",
		Description: "Numeric types inference chooses from, narrowest first, with their integer ranges. Values for default_number_type come from this list.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceNumberTypes)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: resourceScheme + "number-types/{name}",
		Name:        "Number Type",
		Description: "Range of a single numeric type.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceNumberType)
}

func (s *Server) handleResourceNumberTypes(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	infos := make([]NumberTypeInfo, 0, len(jtd.NumTypes))
	for _, t := range jtd.NumTypes {
		infos = append(infos, numberTypeInfo(t))
	}
	return toResourceResult(req.Params.URI, infos)
}

func (s *Server) handleResourceNumberType(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	name, err := parseNumberTypeURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	t, err := jtd.ParseNumType(name)
	if err != nil || t == jtd.NumUnset {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, numberTypeInfo(t))
}

func numberTypeInfo(t jtd.NumType) NumberTypeInfo {
	info := NumberTypeInfo{Name: t.String()}
	if lo, hi, ok := t.Range(); ok {
		info.Integral = true
		info.Min, info.Max = &lo, &hi
	}
	return info
}

// parseNumberTypeURI extracts {name} from jtd://number-types/{name}.
func parseNumberTypeURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected " + resourceScheme)
	}
	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	if len(parts) != 2 || parts[0] != "number-types" || parts[1] == "" {
		return "", tools.ErrInvalidInput("number type URI requires a type name")
	}
	return parts[1], nil
}

func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
