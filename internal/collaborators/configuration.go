package collaborators

// Configuration captures persistent settings for the collaborators command.
type Configuration struct {
	Affiliation Affiliation `mapstructure:"affiliation"`
}

// DefaultConfiguration lists all collaborators.
func DefaultConfiguration() Configuration {
	return Configuration{Affiliation: AffiliationAll}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	if len(sanitized.Affiliation) == 0 {
		sanitized.Affiliation = AffiliationAll
	}
	return sanitized
}
