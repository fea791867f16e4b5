package githubapi

import (
	"context"

	"github.com/google/go-github/v82/github"
)

// RepositoryDetails contains the resolved repository handle.
type RepositoryDetails struct {
	Reference                          RepositoryReference
	FullName                           string
	Name                               string
	DefaultBranch                      string
	Private                            bool
	Visibility                         string
	SecretScanningStatus               string
	SecretScanningPushProtectionStatus string
	DependabotSecurityUpdatesStatus    string
}

// Contributor is a login together with its contribution count.
type Contributor struct {
	Login         string
	Contributions int
}

// ResolveRepository fetches the repository, failing when it does not exist or is not accessible.
func (client *Client) ResolveRepository(requestContext context.Context, reference RepositoryReference) (RepositoryDetails, error) {
	if validationError := reference.Validate(); validationError != nil {
		return RepositoryDetails{}, validationError
	}

	repository, response, getError := client.rest.Repositories.Get(requestContext, reference.Owner, reference.Name)
	if getError != nil {
		return RepositoryDetails{}, newOperationError(resolveRepositoryOperationNameConstant, response, getError)
	}

	securityAndAnalysis := repository.GetSecurityAndAnalysis()
	return RepositoryDetails{
		Reference:                          RepositoryReference{Owner: repository.GetOwner().GetLogin(), Name: repository.GetName()},
		FullName:                           repository.GetFullName(),
		Name:                               repository.GetName(),
		DefaultBranch:                      repository.GetDefaultBranch(),
		Private:                            repository.GetPrivate(),
		Visibility:                         repository.GetVisibility(),
		SecretScanningStatus:               securityAndAnalysis.GetSecretScanning().GetStatus(),
		SecretScanningPushProtectionStatus: securityAndAnalysis.GetSecretScanningPushProtection().GetStatus(),
		DependabotSecurityUpdatesStatus:    securityAndAnalysis.GetDependabotSecurityUpdates().GetStatus(),
	}, nil
}

// ListContributors returns every contributor in API order, following pagination until exhausted.
func (client *Client) ListContributors(requestContext context.Context, reference RepositoryReference) ([]Contributor, error) {
	if validationError := reference.Validate(); validationError != nil {
		return nil, validationError
	}

	listOptions := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: listPageSizeConstant},
	}

	var contributors []Contributor
	for {
		page, response, listError := client.rest.Repositories.ListContributors(requestContext, reference.Owner, reference.Name, listOptions)
		if listError != nil {
			return nil, newOperationError(listContributorsOperationNameConstant, response, listError)
		}

		for _, contributor := range page {
			contributors = append(contributors, Contributor{
				Login:         contributor.GetLogin(),
				Contributions: contributor.GetContributions(),
			})
		}

		if response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}

	return contributors, nil
}
