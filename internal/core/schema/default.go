package schema

import "sync"

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the built-in bilingual schema. It panics only if the literal
// below is malformed, which the package tests rule out.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := New(defaultSections())
		if err != nil {
			panic("schema: invalid built-in lexicon: " + err.Error())
		}
		defaultSchema = s
	})
	return defaultSchema
}

func defaultSections() []Section {
	return []Section{
		{
			ID:      "1",
			Title:   "1. Data description and collection or re-use of existing data",
			TitlePL: "Opis danych oraz pozyskiwanie lub ponowne wykorzystanie istniejących danych",
			Questions: []Question{
				{
					Key:    "1.1",
					Text:   "How will new data be collected or produced and/or how will existing data be re-used?",
					TextPL: "Sposób pozyskiwania i opracowywania nowych danych i/lub ponownego wykorzystania dostępnych danych",
				},
				{
					Key:    "1.2",
					Text:   "What data (for example the types, formats, and volumes) will be collected or produced?",
					TextPL: "Pozyskiwane lub opracowywane dane (np. rodzaj, format, ilość)",
				},
			},
		},
		{
			ID:      "2",
			Title:   "2. Documentation and data quality",
			TitlePL: "Dokumentacja i jakość danych",
			Questions: []Question{
				{
					Key:    "2.1",
					Text:   "What metadata and documentation (for example methodology or data collection and way of organising data) will accompany data?",
					TextPL: "Metadane i dokumentacja towarzysząca danym (np. metodologia lub pozyskiwanie danych oraz sposób porządkowania danych)",
				},
				{
					Key:    "2.2",
					Text:   "What data quality control measures will be used?",
					TextPL: "Stosowane środki kontroli jakości danych",
				},
			},
		},
		{
			ID:      "3",
			Title:   "3. Storage and backup during the research process",
			TitlePL: "Przechowywanie i tworzenie kopii zapasowych danych w trakcie badań",
			Questions: []Question{
				{
					Key:    "3.1",
					Text:   "How will data and metadata be stored and backed up during the research process?",
					TextPL: "Przechowywanie i tworzenie kopii zapasowych danych i metadanych w trakcie badań",
				},
				{
					Key:    "3.2",
					Text:   "How will data security and protection of sensitive data be taken care of during the research?",
					TextPL: "Sposób zapewnienia bezpieczeństwa danych oraz ochrony danych wrażliwych w trakcie badań",
				},
			},
		},
		{
			ID:      "4",
			Title:   "4. Legal requirements, codes of conduct",
			TitlePL: "Wymogi prawne, kodeksy postępowania",
			Questions: []Question{
				{
					Key:    "4.1",
					Text:   "If personal data are processed, how will compliance with legislation on personal data and on data security be ensured?",
					TextPL: "Sposób zapewnienia zgodności z przepisami dotyczącymi danych osobowych i bezpieczeństwa danych w przypadku przetwarzania danych osobowych",
				},
				{
					Key:    "4.2",
					Text:   "How will other legal issues, such as intelectual property rights and ownership, be managed? What legislation is applicable?",
					TextPL: "Sposób zarządzania innymi kwestiami prawnymi, np. prawami własności intelektualnej lub własnością. Jakie przepisy mają zastosowanie?",
				},
			},
		},
		{
			ID:      "5",
			Title:   "5. Data sharing and long-term preservation",
			TitlePL: "Udostępnianie i długotrwałe przechowywanie danych",
			Questions: []Question{
				{
					Key:    "5.1",
					Text:   "How and when will data be shared? Are there possible restrictions to data sharing or embargo reasons?",
					TextPL: "Sposób i termin udostępnienia danych. Ewentualne ograniczenia w udostępnianiu danych lub przyczyny embarga",
				},
				{
					Key:    "5.2",
					Text:   "How will data for preservation be selected, and where will data be preserved long-term (for example a data repository or archive)?",
					TextPL: "Sposób wyboru danych przeznaczonych do przechowywania i miejsce długotrwałego przechowywania danych (np. repozytorium lub archiwum danych)",
				},
				{
					Key:    "5.3",
					Text:   "What methods or software tools will be needed to access and use the data?",
					TextPL: "Metody lub narzędzia programowe niezbędne do korzystania z danych",
				},
				{
					Key:    "5.4",
					Text:   "How will the application of a unique and persistent identifier (such us a Digital Object Identifier (DOI)) to each data set be ensured?",
					TextPL: "Sposób zapewnienia stosowania unikalnego i trwałego identyfikatora (np. cyfrowego identyfikatora obiektu (DOI)) dla każdego zbioru danych",
				},
			},
		},
		{
			ID:      "6",
			Title:   "6. Data management responsibilities and resources",
			TitlePL: "Obowiązki i zasoby związane z zarządzaniem danymi",
			Questions: []Question{
				{
					Key:    "6.1",
					Text:   "Who (for example role, position, and institution) will be responsible for data mangement (i.e the data steward)?",
					TextPL: "Osoba odpowiedzialna za zarządzanie danymi (np. rola, stanowisko i instytucja) (tj. administrator danych)",
				},
				{
					Key:    "6.2",
					Text:   "What resources (for example financial and time) will be dedicated to data management and ensuring the data will be FAIR (Findable, Accessible, Interoperable, Re-usable)?",
					TextPL: "Zasoby przeznaczone na zarządzanie danymi i zapewnienie, że dane będą FAIR",
				},
			},
		},
	}
}
