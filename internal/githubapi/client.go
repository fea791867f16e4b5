package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v82/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	pathutils "github.com/temirov/ghrepo/internal/utils/path"
)

const (
	clientBaseURLParseErrorTemplateConstant = "invalid github.base_url %q: %w"
	clientCreatedMessageConstant            = "GitHub client configured"
	authenticationModeFieldConstant         = "authentication"
	baseURLFieldConstant                    = "base_url"
	graphQLURLFieldConstant                 = "graphql_url"
	authenticationModeTokenConstant         = "token"
	authenticationModeAppConstant           = "app"
)

// AppConfiguration holds GitHub App installation credentials.
type AppConfiguration struct {
	AppID          int64  `mapstructure:"app_id"`
	InstallationID int64  `mapstructure:"installation_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// Enabled reports whether App authentication was requested.
func (configuration AppConfiguration) Enabled() bool {
	return configuration.AppID > 0 && len(strings.TrimSpace(configuration.PrivateKeyPath)) > 0
}

// Configuration describes the GitHub endpoints and repository defaults shared by all commands.
type Configuration struct {
	BaseURL        string           `mapstructure:"base_url"`
	GraphQLURL     string           `mapstructure:"graphql_url"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	Owner          string           `mapstructure:"owner"`
	Repository     string           `mapstructure:"repository"`
	App            AppConfiguration `mapstructure:"app"`
}

// DefaultConfiguration returns the public GitHub endpoints.
func DefaultConfiguration() Configuration {
	return Configuration{BaseURL: DefaultBaseURL}
}

// PrivateKeyReader loads a GitHub App private key.
type PrivateKeyReader func(path string) ([]byte, error)

// ClientOptions collects everything required to construct a Client.
// HTTPClient supplies the base transport; nil selects http.DefaultTransport.
type ClientOptions struct {
	Token            string
	Configuration    Configuration
	HTTPClient       *http.Client
	PrivateKeyReader PrivateKeyReader
}

// RepositoryReference identifies a repository by owner and name.
type RepositoryReference struct {
	Owner string
	Name  string
}

// String renders owner/name.
func (reference RepositoryReference) String() string {
	return fmt.Sprintf(repositoryReferenceFormatConstant, reference.Owner, reference.Name)
}

// Validate ensures both owner and name are present.
func (reference RepositoryReference) Validate() error {
	if len(strings.TrimSpace(reference.Owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(reference.Name)) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

// Client coordinates REST and GraphQL calls against one GitHub installation.
type Client struct {
	rest       *github.Client
	graphql    *githubv4.Client
	httpClient *http.Client
	baseURL    *url.URL
	logger     *zap.Logger
}

// NewClient builds an authenticated client. GitHub App credentials take precedence over a token.
func NewClient(options ClientOptions, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL, baseURLError := normalizeBaseURL(options.Configuration.BaseURL)
	if baseURLError != nil {
		return nil, baseURLError
	}
	graphQLURL := resolveGraphQLURL(baseURL, options.Configuration.GraphQLURL)

	baseHTTPClient := options.HTTPClient
	if baseHTTPClient == nil {
		baseHTTPClient = &http.Client{Transport: http.DefaultTransport}
	}

	var authenticatedClient *http.Client
	authenticationMode := authenticationModeTokenConstant
	switch {
	case options.Configuration.App.Enabled():
		appClient, appError := newAppHTTPClient(baseHTTPClient, baseURL, options.Configuration.App, options.PrivateKeyReader)
		if appError != nil {
			return nil, appError
		}
		authenticatedClient = appClient
		authenticationMode = authenticationModeAppConstant
	case len(strings.TrimSpace(options.Token)) > 0:
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(options.Token)})
		authenticatedClient = oauth2.NewClient(context.WithValue(context.Background(), oauth2.HTTPClient, baseHTTPClient), tokenSource)
	default:
		return nil, ErrCredentialsMissing
	}

	if options.Configuration.RequestTimeout > 0 {
		authenticatedClient.Timeout = options.Configuration.RequestTimeout
	}

	restClient := github.NewClient(authenticatedClient)
	restClient.BaseURL = baseURL

	logger.Debug(
		clientCreatedMessageConstant,
		zap.String(authenticationModeFieldConstant, authenticationMode),
		zap.String(baseURLFieldConstant, baseURL.String()),
		zap.String(graphQLURLFieldConstant, graphQLURL),
	)

	return &Client{
		rest:       restClient,
		graphql:    githubv4.NewEnterpriseClient(graphQLURL, authenticatedClient),
		httpClient: authenticatedClient,
		baseURL:    baseURL,
		logger:     logger,
	}, nil
}

func newAppHTTPClient(baseHTTPClient *http.Client, baseURL *url.URL, configuration AppConfiguration, reader PrivateKeyReader) (*http.Client, error) {
	if configuration.InstallationID <= 0 {
		return nil, InvalidInputError{FieldName: installationIDFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if reader == nil {
		reader = os.ReadFile
	}

	privateKeyPath := pathutils.NewHomeExpander().Expand(configuration.PrivateKeyPath)
	privateKey, readError := reader(privateKeyPath)
	if readError != nil {
		return nil, OperationError{Operation: readPrivateKeyOperationNameConstant, Cause: readError}
	}

	baseTransport := baseHTTPClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}

	installationTransport, transportError := ghinstallation.New(baseTransport, configuration.AppID, configuration.InstallationID, privateKey)
	if transportError != nil {
		return nil, OperationError{Operation: appTransportOperationNameConstant, Cause: transportError}
	}
	installationTransport.BaseURL = strings.TrimSuffix(baseURL.String(), urlPathSeparatorConstant)

	return &http.Client{Transport: installationTransport, Timeout: baseHTTPClient.Timeout}, nil
}

func normalizeBaseURL(rawBaseURL string) (*url.URL, error) {
	trimmedBaseURL := strings.TrimSpace(rawBaseURL)
	if len(trimmedBaseURL) == 0 {
		trimmedBaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(trimmedBaseURL, urlPathSeparatorConstant) {
		trimmedBaseURL += urlPathSeparatorConstant
	}

	parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil {
		return nil, fmt.Errorf(clientBaseURLParseErrorTemplateConstant, rawBaseURL, parseError)
	}
	if len(parsedBaseURL.Scheme) == 0 || len(parsedBaseURL.Host) == 0 {
		return nil, InvalidInputError{FieldName: baseURLFieldConstant, Message: trimmedBaseURL}
	}
	return parsedBaseURL, nil
}

// resolveGraphQLURL derives the GraphQL endpoint from the REST base when none is configured.
func resolveGraphQLURL(baseURL *url.URL, configuredGraphQLURL string) string {
	if trimmedGraphQLURL := strings.TrimSpace(configuredGraphQLURL); len(trimmedGraphQLURL) > 0 {
		return trimmedGraphQLURL
	}

	restBase := baseURL.String()
	if restBase == DefaultBaseURL {
		return DefaultGraphQLURL
	}
	if strings.HasSuffix(restBase, enterpriseRESTSuffixConstant) {
		return strings.TrimSuffix(restBase, enterpriseRESTSuffixConstant) + enterpriseGraphQLSuffixConstant
	}
	return restBase + graphQLPathConstant
}

// newAPIRequest builds a direct REST request with the standard GitHub API headers.
func (client *Client) newAPIRequest(requestContext context.Context, method string, pathSegments ...string) (*http.Request, error) {
	escapedSegments := make([]string, 0, len(pathSegments))
	for _, segment := range pathSegments {
		escapedSegments = append(escapedSegments, url.PathEscape(segment))
	}

	endpoint := client.baseURL.String() + strings.Join(escapedSegments, urlPathSeparatorConstant)
	request, requestError := http.NewRequestWithContext(requestContext, method, endpoint, nil)
	if requestError != nil {
		return nil, requestError
	}

	request.Header.Set(acceptHeaderNameConstant, AcceptHeader)
	request.Header.Set(apiVersionHeaderNameConstant, APIVersion)
	return request, nil
}
