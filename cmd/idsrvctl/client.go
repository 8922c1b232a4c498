package main

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"github.com/railzwaylabs/idsrvctl/internal/client"
	"github.com/railzwaylabs/idsrvctl/internal/client/domain"
	"github.com/railzwaylabs/idsrvctl/internal/document"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newClientCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		newClientGetCmd(opts),
		newClientAddCmd(opts),
		newClientSetCmd(opts),
		newClientRemoveCmd(opts),
	)
	return cmd
}

// withClientService runs fn against a started application and stops it
// afterwards, keeping fn's error when both fail.
func withClientService(cmd *cobra.Command, opts *globalOptions, fn func(domain.Service) error) (err error) {
	var svc domain.Service
	app, err := opts.start(cmd, client.Module, fx.Populate(&svc))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, stop(app))
	}()
	return fn(svc)
}

func newClientGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [client-id]",
		Short: "Show one client, or every client when no id is given",
		Args:  checkArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			return withClientService(cmd, opts, func(svc domain.Service) error {
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

type clientAddFlags struct {
	clientID             string
	name                 string
	flow                 string
	secrets              []string
	generateSecret       bool
	redirectURIs         []string
	postLogoutURIs       []string
	scopes               []string
	identityProviders    []string
	accessTokenType      string
	tokenLifetime        int
	enabled              bool
	requireConsent       bool
	allowRememberConsent bool
	clientURI            string
	logoURI              string
}

func newClientAddCmd(opts *globalOptions) *cobra.Command {
	defaults := domain.NewClientSpec()
	f := &clientAddFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a client",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			spec, err := f.spec(cmd)
			if err != nil {
				return err
			}
			return withClientService(cmd, opts, func(svc domain.Service) error {
				item, err := svc.Add(cmd.Context(), spec)
				if err != nil {
					return err
				}
				return opts.print(cmd, item)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.clientID, "client-id", "", "client identifier (required)")
	flags.StringVar(&f.name, "name", "", "display name of the client (required)")
	flags.StringVar(&f.flow, "flow", "", "protocol flow allowed for the client (required)")
	flags.StringArrayVar(&f.secrets, "secret", nil, "client secret, repeatable")
	flags.BoolVar(&f.generateSecret, "generate-secret", false, "add a random secret and print it")
	flags.StringArrayVar(&f.redirectURIs, "redirect-uri", nil, "redirect uri allowed after login, repeatable")
	flags.StringArrayVar(&f.postLogoutURIs, "post-logout-uri", nil, "redirect uri allowed after logout, repeatable")
	flags.StringArrayVar(&f.scopes, "scope", nil, "scope the client may request, repeatable")
	flags.StringArrayVar(&f.identityProviders, "idp", nil, "external identity provider allowed for the client, repeatable")
	flags.StringVar(&f.accessTokenType, "access-token-type", defaults.AccessTokenType.String(), "Jwt or Reference")
	flags.IntVar(&f.tokenLifetime, "token-lifetime", 0, "identity token, access token and authorization code lifetime in seconds")
	flags.BoolVar(&f.enabled, "enabled", defaults.Enabled, "enable the client right away")
	flags.BoolVar(&f.requireConsent, "require-consent", defaults.RequireConsent, "always show the consent screen")
	flags.BoolVar(&f.allowRememberConsent, "allow-remember-consent", defaults.AllowRememberConsent, "let the user remember the consent decision")
	flags.StringVar(&f.clientURI, "client-uri", "", "home page of the client")
	flags.StringVar(&f.logoURI, "logo-uri", "", "logo shown on consent screens")
	for _, name := range []string{"client-id", "name", "flow"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (f *clientAddFlags) spec(cmd *cobra.Command) (domain.ClientSpec, error) {
	spec := domain.NewClientSpec()
	spec.ClientID = f.clientID
	spec.ClientName = f.name
	spec.Enabled = f.enabled
	spec.RequireConsent = f.requireConsent
	spec.AllowRememberConsent = f.allowRememberConsent
	spec.ClientURI = f.clientURI
	spec.LogoURI = f.logoURI
	spec.RedirectURIs = f.redirectURIs
	spec.PostLogoutRedirectURIs = f.postLogoutURIs
	spec.ScopeRestrictions = f.scopes
	spec.IdentityProviderRestrictions = f.identityProviders

	flow, err := domain.ParseFlow(f.flow)
	if err != nil {
		return spec, err
	}
	spec.Flow = flow

	tokenType, err := domain.ParseAccessTokenType(f.accessTokenType)
	if err != nil {
		return spec, err
	}
	spec.AccessTokenType = tokenType

	if cmd.Flags().Changed("token-lifetime") {
		if f.tokenLifetime <= 0 {
			return spec, fmt.Errorf("%w: token lifetime must be positive", errdefs.ErrInvalidArgument)
		}
		spec.IdentityTokenLifetime = f.tokenLifetime
		spec.AccessTokenLifetime = f.tokenLifetime
		spec.AuthorizationCodeLifetime = f.tokenLifetime
	}

	for _, value := range f.secrets {
		spec.Secrets = append(spec.Secrets, domain.SecretSpec{Value: value, Type: domain.DefaultSecretType})
	}
	if f.generateSecret {
		spec.Secrets = append(spec.Secrets, domain.SecretSpec{
			Value:       uuid.NewString(),
			Type:        domain.DefaultSecretType,
			Description: "generated",
		})
	}
	return spec, nil
}

func newClientSetCmd(opts *globalOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "set --file FILE",
		Short: "Reconcile a stored client with a desired-state document",
		Long: "Reads a client document (json, yaml or toml) and makes the stored client\n" +
			"with the same client_id match it. Keys left out of the document take the\n" +
			"defaults of a new client.",
		Args: checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			spec := domain.NewClientSpec()
			if err := document.DecodeFile(path, &spec); err != nil {
				return err
			}
			return withClientService(cmd, opts, func(svc domain.Service) error {
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

func newClientRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CLIENT_ID",
		Short: "Delete a client and everything attached to it",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClientService(cmd, opts, func(svc domain.Service) error {
				return svc.Remove(cmd.Context(), args[0])
			})
		},
	}
}
