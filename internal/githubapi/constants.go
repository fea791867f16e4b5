package githubapi

// API configuration.
const (
	DefaultBaseURL         = "https://api.github.com/"
	DefaultGraphQLURL      = "https://api.github.com/graphql"
	DefaultProtectedBranch = "main"
	AcceptHeader           = "application/vnd.github+json"
	APIVersion             = "2022-11-28"
)

// Security status values reported by GitHub.
const (
	StatusEnabled   = "enabled"
	StatusDisabled  = "disabled"
	StateConfigured = "configured"
)

const (
	acceptHeaderNameConstant          = "Accept"
	apiVersionHeaderNameConstant      = "X-GitHub-Api-Version"
	enterpriseRESTSuffixConstant      = "/api/v3/"
	enterpriseGraphQLSuffixConstant   = "/api/graphql"
	graphQLPathConstant               = "graphql"
	urlPathSeparatorConstant          = "/"
	listPageSizeConstant              = 100
	ownerFieldNameConstant            = "owner"
	repositoryFieldNameConstant       = "repository"
	pathFieldNameConstant             = "path"
	usernameFieldNameConstant         = "username"
	permissionFieldNameConstant       = "permission"
	installationIDFieldNameConstant   = "github.app.installation_id"
	requiredValueMessageConstant      = "value required"
	repositoryReferenceFormatConstant = "%s/%s"
)
