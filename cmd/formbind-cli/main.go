package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/bind"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/render/memdom"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/tui"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if err := rootCommand().Execute(); err != nil {
		logger.Fatal(err)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "formbind-cli",
		Short:         "Build, validate, and fill forms from declarative documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(inspectCommand(), validateCommand(), fillCommand())
	return root
}

func inspectCommand() *cobra.Command {
	var operation string
	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Print the model tree built from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := buildTree(cmd.Context(), args[0], operation)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), root)
			return nil
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "treat the document as OpenAPI and use this operation's request body")
	return cmd
}

func validateCommand() *cobra.Command {
	var operation string
	var sets []string
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Apply values to a built form and report validity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := buildTree(cmd.Context(), args[0], operation)
			if err != nil {
				return err
			}
			form, err := bind.NewForm(root)
			if err != nil {
				return err
			}
			for _, set := range sets {
				path, value, err := parseSet(set)
				if err != nil {
					return err
				}
				if err := form.UpdateValue(path, value); err != nil {
					return err
				}
			}
			printTree(cmd.OutOrStdout(), root)
			if form.Status() == forms.StatusInvalid {
				return fmt.Errorf("form is invalid")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "form is %s\n", form.Status())
			return nil
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "treat the document as OpenAPI and use this operation's request body")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "value to apply, as path=value (repeatable)")
	return cmd
}

func fillCommand() *cobra.Command {
	var operation string
	cmd := &cobra.Command{
		Use:   "fill <document>",
		Short: "Fill a form interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := buildTree(cmd.Context(), args[0], operation)
			if err != nil {
				return err
			}
			form, err := bind.NewForm(root)
			if err != nil {
				return err
			}
			if err := attachLeaves(form, root); err != nil {
				return err
			}
			session, err := tui.NewSession(tui.NewSurveyDriver(), form)
			if err != nil {
				return err
			}
			return session.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "treat the document as OpenAPI and use this operation's request body")
	return cmd
}

func buildTree(ctx context.Context, path, operation string) (*forms.Group, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		doc schema.Document
		err error
	)
	if operation != "" {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read document: %w", readErr)
		}
		doc, err = openapi.DocumentForOperation(ctx, raw, operation)
	} else {
		doc, err = schema.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return schema.Build(doc)
}

// attachLeaves gives every leaf control a binding backed by an in-memory
// element, picking the accessor from the control's current value type.
func attachLeaves(form *bind.FormBinding, root *forms.Group) error {
	renderer := memdom.New()

	type leaf struct {
		path forms.Path
		node *forms.Control
	}
	var leaves []leaf
	forms.Walk(root, func(path forms.Path, node forms.Node) bool {
		if control, ok := node.(*forms.Control); ok {
			leaves = append(leaves, leaf{path: path, node: control})
		}
		return true
	})

	containers := map[string]bind.ContainerBinding{"": form}
	for _, l := range leaves {
		parent, err := containerFor(form, containers, l.path[:len(l.path)-1])
		if err != nil {
			return err
		}
		el := renderer.CreateElement("input")
		accessor := accessorFor(renderer, el, l.node.Value())

		seg := l.path[len(l.path)-1]
		var binding *bind.ControlBinding
		if seg.IsIndex() {
			binding = bind.NewControlBindingAt(seg.Pos(), parent, bind.WithAccessors(accessor))
		} else {
			binding = bind.NewControlBinding(seg.Key(), parent, bind.WithAccessors(accessor))
		}
		if err := binding.Attach(); err != nil {
			return err
		}
	}
	return nil
}

// containerFor lazily attaches container bindings along a path, reusing the
// ones already registered.
func containerFor(form *bind.FormBinding, containers map[string]bind.ContainerBinding, path forms.Path) (bind.ContainerBinding, error) {
	key := path.String()
	if existing, ok := containers[key]; ok {
		return existing, nil
	}

	parent, err := containerFor(form, containers, path[:len(path)-1])
	if err != nil {
		return nil, err
	}
	seg := path[len(path)-1]
	node, err := forms.Find(form.Root(), path)
	if err != nil {
		return nil, err
	}

	var binding bind.ContainerBinding
	switch node.(type) {
	case *forms.Array:
		var ab *bind.ArrayBinding
		if seg.IsIndex() {
			ab = bind.NewArrayBindingAt(seg.Pos(), parent)
		} else {
			ab = bind.NewArrayBinding(seg.Key(), parent)
		}
		if err := ab.Attach(); err != nil {
			return nil, err
		}
		binding = ab
	default:
		var gb *bind.GroupBinding
		if seg.IsIndex() {
			gb = bind.NewGroupBindingAt(seg.Pos(), parent)
		} else {
			gb = bind.NewGroupBinding(seg.Key(), parent)
		}
		if err := gb.Attach(); err != nil {
			return nil, err
		}
		binding = gb
	}
	containers[key] = binding
	return binding, nil
}

func accessorFor(renderer *memdom.Renderer, el any, value any) bind.ValueAccessor {
	switch value.(type) {
	case bool:
		return bind.NewCheckboxAccessor(renderer, el)
	case float64:
		return bind.NewNumberAccessor(renderer, el)
	default:
		return bind.NewTextAccessor(renderer, el)
	}
}

func printTree(out io.Writer, root *forms.Group) {
	type row struct {
		path   string
		status forms.Status
		value  any
	}
	var rows []row
	forms.Walk(root, func(path forms.Path, node forms.Node) bool {
		if _, ok := node.(*forms.Control); ok {
			rows = append(rows, row{path: path.String(), status: node.Status(), value: node.Value()})
		}
		return true
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].path < rows[j].path })
	for _, r := range rows {
		fmt.Fprintf(out, "%-30s %-10s %v\n", r.path, r.status, r.value)
	}
}

func parseSet(raw string) (forms.Path, any, error) {
	idx := strings.Index(raw, "=")
	if idx <= 0 {
		return nil, nil, fmt.Errorf("invalid --set %q, expected path=value", raw)
	}
	return forms.ParsePath(raw[:idx]), raw[idx+1:], nil
}
