package schema

// Tag is one entry of the closed key-phrase taxonomy. Keywords are lowercase
// and matched as substrings of the lowercased paragraph.
type Tag struct {
	Name     string
	Keywords []string
}

// Taxonomy is returned in the order tags are reported on paragraphs.
func Taxonomy() []Tag {
	return []Tag{
		{"methodology", []string{"methodology", "method", "survey", "interview", "experiment", "measurement", "questionnaire", "metodologi", "metod", "ankiet", "wywiad", "eksperyment", "pomiar"}},
		{"data_format", []string{"format", "csv", "xlsx", "json", "xml", "pdf", "txt", "tiff", "jpeg", "png", "docx", "hdf5", "netcdf", "plik"}},
		{"data_volume", []string{"volume", "gigabyte", "terabyte", "megabyte", " gb", " tb", " mb", "size of", "ilość", "objętość", "rozmiar"}},
		{"metadata", []string{"metadata", "documentation", "readme", "codebook", "data dictionary", "metadane", "dokumentacj", "opis danych"}},
		{"quality", []string{"quality", "validation", "verification", "calibration", "consistency", "jakość", "jakości", "walidacj", "weryfikacj", "kalibracj"}},
		{"storage", []string{"storage", "stored", "store ", "repository", "server", "disk", "cloud", "przechowywan", "przechowywane", "serwer", "dysk", "chmur"}},
		{"backup", []string{"backup", "back up", "backed up", "back-up", "copies", "kopia zapasowa", "kopie zapasowe", "kopii zapasow", "kopi"}},
		{"security", []string{"security", "secure", "encrypt", "password", "access control", "firewall", "bezpieczeństw", "bezpieczn", "szyfrowan", "hasł"}},
		{"personal_data", []string{"personal data", "gdpr", "anonymi", "pseudonymi", "consent", "sensitive", "dane osobowe", "danych osobowych", "rodo", "anonimiz", "pseudonimiz", "zgod", "wrażliw"}},
		{"license", []string{"license", "licence", "creative commons", "cc-by", "cc by", "copyright", "intellectual property", "intelectual property", "licencj", "prawa autorskie", "własności intelektualnej"}},
		{"sharing", []string{"sharing", "shared", "share ", "open access", "publish", "embargo", "udostępn", "otwarty dostęp", "publikacj"}},
		{"preservation", []string{"preservation", "preserved", "long-term", "long term", "archive", "archiving", "długotrwał", "archiwi", "archiwum"}},
		{"tools", []string{"software", "tool", "python", "matlab", "spss", " r ", "excel", "oprogramowani", "narzędzi", "program"}},
		{"identifier", []string{"doi", "identifier", "persistent", "handle", "orcid", "identyfikator", "trwał"}},
		{"responsibility", []string{"responsible", "responsibility", "data steward", "principal investigator", "manager", "odpowiedzialn", "kierownik", "administrator danych"}},
		{"resources", []string{"resources", "cost", "budget", "funding", "financial", "time", "fair", "zasob", "koszt", "budżet", "finans", "czas"}},
	}
}
