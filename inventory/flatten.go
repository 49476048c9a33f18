package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/vulnmgt/malwatch/model"
	"github.com/vulnmgt/malwatch/pager"
)

// Flattener walks the workspace -> project -> library hierarchy and produces
// one InventoryTriple per library occurrence, in API order at every level.
type Flattener struct {
	src    Source
	logger *zap.Logger
}

// NewFlattener creates a Flattener over the given inventory source
func NewFlattener(src Source, logger *zap.Logger) *Flattener {
	return &Flattener{
		src:    src,
		logger: logger,
	}
}

// Flatten fetches the full hierarchy sequentially. Failure policy per level:
//
//   - the workspace list is the root of the whole inventory, so a first-page
//     failure there propagates and aborts the run;
//   - a project or library list whose first page fails degrades to empty for
//     that resource and the run continues;
//   - later-page failures at any level keep the partial pages already fetched.
//
// The degraded cases silently shrink match recall; that trade-off (partial
// visibility over total failure) is deliberate.
func (f *Flattener) Flatten(ctx context.Context) ([]model.InventoryTriple, error) {
	workspaces, err := pager.DrainNumbered(ctx, StageWorkspaces, f.logger, f.src.ListWorkspaces)
	if err != nil {
		return nil, err
	}

	sugar := f.logger.Sugar()
	sugar.Infof("inventory: %d workspace(s)", len(workspaces))

	var triples []model.InventoryTriple

	for _, workspace := range workspaces {
		projects := f.drainProjects(ctx, workspace)

		for _, project := range projects {
			libraries := f.drainLibraries(ctx, workspace, project)

			for _, library := range libraries {
				triples = append(triples, model.InventoryTriple{
					Library:   library,
					Project:   project,
					Workspace: workspace,
				})
			}
		}
	}

	sugar.Infof("inventory: flattened %d library occurrence(s)", len(triples))

	return triples, nil
}

func (f *Flattener) drainProjects(ctx context.Context, workspace model.Workspace) []model.Project {
	projects, err := pager.DrainNumbered(ctx, StageProjects, f.logger,
		func(ctx context.Context, pageIndex int) (pager.NumberedPage[model.Project], error) {
			return f.src.ListProjects(ctx, workspace.ID, pageIndex)
		})
	if err != nil {
		// Inaccessible workspace: degrade to empty rather than abort.
		f.logger.Sugar().Warnf("inventory: workspace %s (%s) unreadable, skipping: %v",
			workspace.Name, workspace.ID, err)
		return nil
	}
	return projects
}

func (f *Flattener) drainLibraries(ctx context.Context, workspace model.Workspace, project model.Project) []model.LibraryRecord {
	libraries, err := pager.DrainNumbered(ctx, StageLibraries, f.logger,
		func(ctx context.Context, pageIndex int) (pager.NumberedPage[model.LibraryRecord], error) {
			return f.src.ListLibraries(ctx, workspace.ID, project.ID, pageIndex)
		})
	if err != nil {
		f.logger.Sugar().Warnf("inventory: project %s (%s) unreadable, skipping: %v",
			project.Name, project.ID, err)
		return nil
	}
	return libraries
}
