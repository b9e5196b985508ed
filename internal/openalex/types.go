package openalex

// workJSON captures the fields we need from an OpenAlex work record.
type workJSON struct {
	Title       string           `json:"title"`
	DisplayName string           `json:"display_name"`
	Authorships []authorshipJSON `json:"authorships"`
}

// authorshipJSON is one entry in a work's authorships list.
type authorshipJSON struct {
	Author struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"author"`
	Institutions []struct {
		DisplayName string `json:"display_name"`
	} `json:"institutions"`
}

// worksListJSON is the envelope for /works list responses.
type worksListJSON struct {
	Results []workJSON `json:"results"`
}

// authorJSON captures the fields we need from an OpenAlex author record.
type authorJSON struct {
	DisplayName          string `json:"display_name"`
	LastKnownInstitution *struct {
		DisplayName string `json:"display_name"`
	} `json:"last_known_institution"`
}

// authorsListJSON is the envelope for /authors list responses.
type authorsListJSON struct {
	Results []authorJSON `json:"results"`
}
