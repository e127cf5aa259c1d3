package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// UtilityInfo is the wire shape of one utility.
type UtilityInfo struct {
	Class        string `json:"class"`
	Category     string `json:"category,omitempty"`
	Rule         string `json:"rule,omitempty"`
	Layer        string `json:"layer"`
	Declarations string `json:"declarations"`
}

// ClassExplanation is the wire shape of one explain_class entry.
type ClassExplanation struct {
	Class      string   `json:"class"`
	Known      bool     `json:"known"`
	Variants   []string `json:"variants,omitempty"`
	Base       string   `json:"base,omitempty"`
	Layer      string   `json:"layer,omitempty"`
	Selector   string   `json:"selector,omitempty"`
	Breakpoint string   `json:"breakpoint,omitempty"`
	CSS        string   `json:"css,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// BuildSummary is the wire shape of a build_stylesheet response.
type BuildSummary struct {
	Seq        uint64   `json:"seq"`
	Files      int      `json:"files"`
	Candidates int      `json:"candidates"`
	Utilities  int      `json:"utilities"`
	Retained   int      `json:"retained"`
	Bytes      int      `json:"bytes"`
	DurationMs int64    `json:"duration_ms"`
	Warnings   []string `json:"warnings,omitempty"`
	Written    string   `json:"written,omitempty"`
	CSS        string   `json:"css,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toUtilityInfo(d utility.Definition) UtilityInfo {
	return UtilityInfo{
		Class:        d.ClassName,
		Category:     string(d.Category),
		Rule:         d.Rule,
		Layer:        d.Layer.String(),
		Declarations: d.Declarations(),
	}
}

func (s *Server) handleListUtilities(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := s.builder.Universe()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("theme resolution failed", err), nil
	}

	var defs []utility.Definition
	if cat := req.GetString("category", ""); cat != "" {
		c, ok := theme.ParseCategory(cat)
		if !ok {
			return mcp.NewToolResultErrorf("unknown category %q", cat), nil
		}
		defs = u.ByCategory(c)
	} else {
		defs = u.Definitions()
	}

	prefix := req.GetString("prefix", "")
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	out := make([]UtilityInfo, 0, min(limit, len(defs)))
	total := 0
	for _, d := range defs {
		if !strings.HasPrefix(d.ClassName, prefix) {
			continue
		}
		total++
		if len(out) < limit {
			out = append(out, toUtilityInfo(d))
		}
	}

	return jsonResult(map[string]any{
		"total":     total,
		"utilities": out,
	})
}

func (s *Server) handleExplainClass(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classes, err := req.RequireStringSlice("classes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]ClassExplanation, 0, len(classes))
	for _, class := range classes {
		out = append(out, s.explain(class))
	}
	return jsonResult(out)
}

func (s *Server) explain(class string) ClassExplanation {
	e := ClassExplanation{Class: class}
	e.Variants, e.Base = variant.Split(class)

	d, ok, err := s.builder.Resolve(class)
	var uv *variant.UnknownVariantError
	switch {
	case errors.As(err, &uv):
		e.Error = uv.Error()
		return e
	case err != nil:
		e.Error = err.Error()
		return e
	case !ok:
		e.Error = "not a generated utility"
		return e
	}

	e.Known = true
	e.Layer = d.Layer.String()
	e.Selector = d.ClassSelector()
	e.Breakpoint = d.Breakpoint
	if css, _, err := s.builder.CSSFor([]string{class}, false); err == nil {
		e.CSS = css
	}
	return e
}

func (s *Server) handleGenerateCSS(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classes, err := req.RequireStringSlice("classes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	css, pr, err := s.builder.CSSFor(classes, req.GetBool("pretty", false))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("theme resolution failed", err), nil
	}

	retained := make(map[string]bool, len(pr.Retained))
	for _, d := range pr.Retained {
		retained[d.ClassName] = true
	}
	var unknown []string
	for _, c := range classes {
		if !retained[c] {
			unknown = append(unknown, c)
		}
	}

	return jsonResult(map[string]any{
		"css":     css,
		"unknown": unknown,
	})
}

func (s *Server) handleBuildStylesheet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	r, err := s.builder.Build(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("build failed", err), nil
	}

	sum := BuildSummary{
		Seq:        r.Seq,
		Files:      r.Stats.Files,
		Candidates: r.Stats.Candidates,
		Utilities:  r.Stats.Utilities,
		Retained:   r.Stats.Retained,
		Bytes:      r.Stats.Bytes,
		DurationMs: r.Stats.Duration.Milliseconds(),
	}
	for _, w := range r.WarningList() {
		sum.Warnings = append(sum.Warnings, w.Error())
	}
	if req.GetBool("include_css", false) {
		sum.CSS = r.CSS
	}
	if req.GetBool("write", false) {
		if s.publisher == nil {
			return mcp.NewToolResultError("no output file configured"), nil
		}
		if _, err := s.publisher.Publish(r); err != nil {
			return mcp.NewToolResultErrorFromErr("write failed", err), nil
		}
		sum.Written = s.publisher.Destination()
	}
	return jsonResult(sum)
}
