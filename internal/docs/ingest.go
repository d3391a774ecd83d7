package docs

import (
	"context"
	"fmt"
	"sync"

	"github.com/OceanicJS/Bot/internal/typedoc"
	"github.com/cockroachdb/errors"
	slogctx "github.com/veqryn/slog-context"
)

// ErrMalformedProject marks exports whose shape makes a run impossible.
var ErrMalformedProject = errors.New("malformed typedoc project")

// Stage is the progress of one ingestion run.
type Stage int

const (
	StageIdle Stage = iota
	StageWalkingModules
	StageDispatchingChildren
	StageSynthesizingEvents
	StagePersisted
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageWalkingModules:
		return "walking-modules"
	case StageDispatchingChildren:
		return "dispatching-children"
	case StageSynthesizingEvents:
		return "synthesizing-events"
	case StagePersisted:
		return "persisted"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// DiagnosticSink collects per-version diagnostics. An empty version means
// the message is not attributable to a generation.
type DiagnosticSink interface {
	Add(version, message string)
}

// Ingester converts TypeDoc projects into Roots. Runs are serialized; each
// run starts from an empty name table.
type Ingester struct {
	mu    sync.Mutex
	sink  DiagnosticSink
	names *NameTable
	stage Stage
}

func NewIngester(sink DiagnosticSink) *Ingester {
	return &Ingester{sink: sink}
}

// Stage reports how far the latest run got.
func (in *Ingester) Stage() Stage {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.stage
}

// ingestRun carries the state owned by one run.
type ingestRun struct {
	ctx      context.Context
	version  string
	in       *Ingester
	names    *NameTable
	renderer *Renderer
}

func (r *ingestRun) report(msg string) {
	slogctx.Debug(r.ctx, "Generation diagnostic", "message", msg)
	r.in.sink.Add(r.version, msg)
}

func (r *ingestRun) setStage(s Stage) {
	slogctx.Debug(r.ctx, "Generation stage", "stage", s.String())
	r.in.stage = s
}

// Ingest walks project and returns its Root for version. An unexpected
// declaration at the project root, or a function without signatures,
// aborts the run with an error wrapping ErrMalformedProject.
func (in *Ingester) Ingest(ctx context.Context, project *typedoc.Project, version string) (*Root, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	run := &ingestRun{ctx: ctx, version: version, in: in}
	if in.names == nil {
		in.names = NewNameTable(run.report)
	}
	// The table outlives runs; point its miss reports at this one.
	in.names.report = run.report
	in.names.Reset()
	run.names = in.names
	run.renderer = NewRenderer(in.names, run.report)

	in.stage = StageIdle
	root, err := run.walk(project)
	if err != nil {
		run.report(fmt.Sprintf("Generation aborted at %s: %v", in.stage, err))
		return nil, err
	}
	return root, nil
}

// MarkPersisted records that the latest run's Root reached storage.
func (in *Ingester) MarkPersisted() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.stage = StagePersisted
}

func (r *ingestRun) walk(project *typedoc.Project) (*Root, error) {
	if project == nil {
		return nil, errors.Wrap(ErrMalformedProject, "no project")
	}

	r.setStage(StageWalkingModules)
	if err := r.saveNames(project); err != nil {
		return nil, err
	}

	r.setStage(StageDispatchingChildren)
	root := NewRoot()
	for _, child := range project.Children {
		if child.Kind != typedoc.KindModule {
			if err := r.dispatch(root, child, project.Name); err != nil {
				return nil, err
			}
			continue
		}
		for _, decl := range child.Children {
			if err := r.dispatch(root, decl, child.Name); err != nil {
				return nil, err
			}
		}
	}

	r.setStage(StageSynthesizingEvents)
	synthesizeEvents(root, r.report)
	return root, nil
}

// saveNames fills the name table from the first two levels of the tree.
func (r *ingestRun) saveNames(project *typedoc.Project) error {
	for _, child := range project.Children {
		switch child.Kind {
		case typedoc.KindModule, typedoc.KindClass, typedoc.KindInterface, typedoc.KindTypeAlias:
			r.names.Set(child.ID, child.Name)
		default:
			return errors.Wrapf(ErrMalformedProject, "unexpected %s at project root",
				typedoc.Describe(child.Kind, child.Name, child.ID))
		}
		if child.Kind != typedoc.KindModule {
			continue
		}
		for _, decl := range child.Children {
			switch decl.Kind {
			case typedoc.KindClass, typedoc.KindInterface, typedoc.KindEnum, typedoc.KindTypeAlias,
				typedoc.KindVariable, typedoc.KindFunction, typedoc.KindReference:
				r.names.Set(decl.ID, decl.Name)
			}
		}
	}
	return nil
}

func (r *ingestRun) dispatch(root *Root, decl *typedoc.Declaration, module string) error {
	switch decl.Kind {
	case typedoc.KindClass:
		root.Classes = append(root.Classes, r.class(decl, module))
	case typedoc.KindInterface:
		root.Interfaces = append(root.Interfaces, r.interfaceDecl(decl, module))
	case typedoc.KindEnum:
		root.Enums = append(root.Enums, r.enum(decl, module))
	case typedoc.KindTypeAlias:
		if alias, ok := r.typeAlias(decl, module); ok {
			root.TypeAliases = append(root.TypeAliases, alias)
		}
	case typedoc.KindVariable:
		if v, ok := r.variable(decl, module); ok {
			root.Variables = append(root.Variables, v)
		}
	case typedoc.KindFunction:
		fn, err := r.function(decl, module)
		if err != nil {
			return err
		}
		root.Functions = append(root.Functions, fn)
	case typedoc.KindReference:
		if ref, ok := r.reference(decl); ok {
			root.References = append(root.References, ref)
		}
	case typedoc.KindNamespace:
		// namespaces are not documented
	default:
		r.report(fmt.Sprintf("Unexpected %s in module %s", typedoc.Describe(decl.Kind, decl.Name, decl.ID), module))
	}
	return nil
}
