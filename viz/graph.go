// ABOUTME: GraphViz rendering of the deal pipeline
// ABOUTME: Chains stages in order and hangs each deal and its company off its stage
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GeneratePipelineGraph returns DOT source for the whole pipeline. An
// empty stage filter includes every deal.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context, stage string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	deals, err := db.FindDeals(g.db, db.DealFilter{Stage: stage})
	if err != nil {
		return "", fmt.Errorf("failed to fetch deals: %w", err)
	}

	stageNodes := make(map[string]*cgraph.Node)
	var prev *cgraph.Node
	for i, s := range models.Stages() {
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d%%", s, models.ProbabilityForStage(s)))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		stageNodes[s] = node

		// Closed Lost sits off the main path.
		if prev != nil && s != models.StageClosedLost {
			edge, err := graph.CreateEdgeByName("next", prev, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetStyle("bold")
		}
		prev = node
	}

	companyNodes := make(map[string]*cgraph.Node)
	for _, deal := range deals {
		stageNode, ok := stageNodes[deal.Stage]
		if !ok {
			// Stages outside the table get their own grey node.
			stageNode, err = graph.CreateNodeByName("stage_" + deal.Stage)
			if err != nil {
				return "", fmt.Errorf("failed to create stage node: %w", err)
			}
			stageNode.SetLabel(fmt.Sprintf("%s\n0%%", deal.Stage))
			stageNode.SetShape("box")
			stageNode.SetStyle("dashed")
			stageNodes[deal.Stage] = stageNode
		}

		node, err := graph.CreateNodeByName("deal_" + deal.ID)
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s %s-%s\nweighted %s", deal.Name, deal.MandateType,
			FormatAmount(deal.EVMin), FormatAmount(deal.EVMax), FormatAmount(deal.WeightedEV())))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		edge, err := graph.CreateEdgeByName("in_stage", stageNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dotted")

		if deal.CompanyID == "" {
			continue
		}
		companyNode, ok := companyNodes[deal.CompanyID]
		if !ok {
			company, err := db.GetCompany(g.db, deal.CompanyID)
			if err != nil {
				// A dangling company id still draws the deal.
				continue
			}
			companyNode, err = graph.CreateNodeByName("company_" + company.ID)
			if err != nil {
				return "", fmt.Errorf("failed to create company node: %w", err)
			}
			companyNode.SetLabel(fmt.Sprintf("%s\n(%s)", company.Name, company.Sector))
			companyNode.SetShape("component")
			companyNode.SetStyle("filled")
			companyNode.SetFillColor("lightgreen")
			companyNodes[deal.CompanyID] = companyNode
		}
		edge, err = graph.CreateEdgeByName("target", node, companyNode)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel("target")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
