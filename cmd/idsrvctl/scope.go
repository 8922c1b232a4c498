package main

import (
	"errors"

	"github.com/railzwaylabs/idsrvctl/internal/document"
	"github.com/railzwaylabs/idsrvctl/internal/scope"
	"github.com/railzwaylabs/idsrvctl/internal/scope/domain"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newScopeCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Manage scopes",
	}
	cmd.AddCommand(
		newScopeGetCmd(opts),
		newScopeAddCmd(opts),
		newScopeSetCmd(opts),
		newScopeRemoveCmd(opts),
	)
	return cmd
}

func withScopeService(cmd *cobra.Command, opts *globalOptions, fn func(domain.Service) error) (err error) {
	var svc domain.Service
	app, err := opts.start(cmd, scope.Module, fx.Populate(&svc))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, stop(app))
	}()
	return fn(svc)
}

func newScopeGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [name]",
		Short: "Show one scope, or every scope when no name is given",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			return withScopeService(cmd, opts, func(svc domain.Service) error {
				if len(args) == 0 {
					items, err := svc.List(cmd.Context())
					if err != nil {
						return err
					}
					return opts.print(cmd, items)
				}
				item, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.print(cmd, item)
			})
		},
	}
}

func newScopeAddCmd(opts *globalOptions) *cobra.Command {
	spec := domain.NewScopeSpec()
	var scopeType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a scope",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			t, err := domain.ParseScopeType(scopeType)
			if err != nil {
				return err
			}
			spec.Type = t
			return withScopeService(cmd, opts, func(svc domain.Service) error {
				item, err := svc.Add(cmd.Context(), spec)
				if err != nil {
					return err
				}
				return opts.print(cmd, item)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&spec.Name, "name", "", "scope name (required)")
	flags.StringVar(&spec.DisplayName, "display-name", "", "name shown on consent screens")
	flags.StringVar(&spec.Description, "description", "", "description shown on consent screens")
	flags.StringVar(&scopeType, "type", spec.Type.String(), "Identity or Resource")
	flags.BoolVar(&spec.Emphasize, "emphasize", spec.Emphasize, "emphasize on consent screens")
	flags.BoolVar(&spec.ShowInDiscoveryDocument, "discoverable", spec.ShowInDiscoveryDocument, "list in the discovery document")
	flags.BoolVar(&spec.Required, "required", spec.Required, "the scope must be consented to")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newScopeSetCmd(opts *globalOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "set --file FILE",
		Short: "Reconcile a stored scope with a desired-state document",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			spec := domain.NewScopeSpec()
			if err := document.DecodeFile(path, &spec); err != nil {
				return err
			}
			return withScopeService(cmd, opts, func(svc domain.Service) error {
				item, err := svc.Set(cmd.Context(), spec)
				if err != nil {
					return err
				}
				return opts.print(cmd, item)
			})
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "desired-state document")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newScopeRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a scope and its claims",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScopeService(cmd, opts, func(svc domain.Service) error {
				return svc.Remove(cmd.Context(), args[0])
			})
		},
	}
}
