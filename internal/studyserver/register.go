package studyserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_study/internal/engine/study"
)

// RegisterTools registers the study_bundle tool on the given MCP server.
func RegisterTools(server *mcp.Server, svc *Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "study_bundle",
		Description: "Turn a course syllabus into a study bundle. Extracts searchable topics from the syllabus, then for each topic finds a popular embeddable YouTube tutorial, articles from trusted education and reference sites, and a one-paragraph note. Returns structured JSON {topics, videos, resources, notes}. Topics that fail to enrich are still listed but may have no video, resources or note.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input study.Request) (*mcp.CallToolResult, study.ResultBundle, error) {
		out, err := svc.Bundle(ctx, input)
		if err != nil {
			status, msg := mapError(err)
			slog.Warn("study_bundle failed",
				slog.Int("status", status),
				slog.String("subject", input.Subject),
				slog.Any("error", err),
			)
			return nil, study.ResultBundle{}, errors.New(msg)
		}
		return nil, out, nil
	})
}
