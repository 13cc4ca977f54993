package domain

// Job names the inputs and destination of one run.
type Job struct {
	MessagesPath   string
	CategoriesPath string
	Database       string
}

// LoadStats counts the rows read from each input.
type LoadStats struct {
	MessagesRows   int
	CategoriesRows int
}

// CleanStats describes what the transformer did to a table.
type CleanStats struct {
	CategoryColumns   []string
	CoercedTokens     int
	DuplicatesDropped int
}

// Report summarises a finished run.
type Report struct {
	MessagesRows      int
	CategoriesRows    int
	JoinedRows        int
	CategoryColumns   int
	CoercedTokens     int
	DuplicatesDropped int
	SavedRows         int
	Destination       string
}
