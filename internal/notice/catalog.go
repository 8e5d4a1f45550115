package notice

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	QuantityUpdated      = "quantity.updated"
	QuantityFailed       = "quantity.failed"
	QuantityError        = "quantity.error"
	CatalogCabinetAdded  = "cabinet.added.catalog"
	CustomCabinetAdded   = "cabinet.added.custom"
	CabinetAddError      = "cabinet.add.error"
	CabinetUpdated       = "cabinet.updated"
	CabinetNotFound      = "cabinet.notfound"
	CabinetEditError     = "cabinet.edit.error"
	CabinetDuplicated    = "cabinet.duplicated"
	DuplicateNotFound    = "cabinet.duplicate.notfound"
	CabinetDuplicateErr  = "cabinet.duplicate.error"
	CabinetDeleted       = "cabinet.deleted"
	CabinetDeleteFailed  = "cabinet.delete.failed"
	CabinetDeleteError   = "cabinet.delete.error"
	OrderUpdated         = "order.updated"
	OrderError           = "order.error"
	SortError            = "order.sort.error"
	SequenceUpdated      = "sequence.updated"
	SequenceUnchanged    = "sequence.unchanged"
	SequenceDuplicate    = "sequence.duplicate"
	SequenceNotFound     = "sequence.notfound"
	SequenceFailed       = "sequence.failed"
	SequenceError        = "sequence.error"
	ClientSaved          = "client.saved"
	ClientSaveFailed     = "client.failed"
	ClientSaveError      = "client.error"
	ProjectLoadError     = "project.load.error"
	ReportGenerated      = "report.generated"
	ReportFailed         = "report.failed"
	ReportError          = "report.error"
	AccessoryLinked      = "accessory.linked"
	AccessoryUnlinked    = "accessory.unlinked"
	AccessoryError       = "accessory.error"
	InvalidQuantityValue = "quantity.invalid"
)

// Supported languages. Polish is the default.
var (
	Polish    = language.Polish
	English   = language.English
	supported = []language.Tag{Polish, English}
	matcher   = language.NewMatcher(supported)
)

type entry struct {
	key    string
	pl, en string
}

var entries = []entry{
	{QuantityUpdated, "Ilość została zaktualizowana na %d", "Quantity updated to %d"},
	{QuantityFailed, "Nie udało się zaktualizować ilości", "Could not update the quantity"},
	{QuantityError, "Błąd podczas aktualizacji ilości: %v", "Error while updating the quantity: %v"},
	{InvalidQuantityValue, "Ilość musi wynosić co najmniej 1", "Quantity must be at least 1"},
	{CatalogCabinetAdded, "Szafka została dodana z katalogu", "Cabinet added from the catalog"},
	{CustomCabinetAdded, "Niestandardowa szafka została dodana", "Custom cabinet added"},
	{CabinetAddError, "Błąd podczas dodawania szafki: %v", "Error while adding the cabinet: %v"},
	{CabinetUpdated, "Szafka została zaktualizowana", "Cabinet updated"},
	{CabinetNotFound, "Nie znaleziono szafki do edycji", "Cabinet to edit not found"},
	{CabinetEditError, "Błąd podczas edycji szafki: %v", "Error while editing the cabinet: %v"},
	{CabinetDuplicated, "Szafka została zduplikowana", "Cabinet duplicated"},
	{DuplicateNotFound, "Nie znaleziono szafki do duplikacji", "Cabinet to duplicate not found"},
	{CabinetDuplicateErr, "Błąd podczas duplikacji szafki: %v", "Error while duplicating the cabinet: %v"},
	{CabinetDeleted, "Szafka została usunięta", "Cabinet deleted"},
	{CabinetDeleteFailed, "Nie udało się usunąć szafki", "Could not delete the cabinet"},
	{CabinetDeleteError, "Błąd podczas usuwania szafki: %v", "Error while deleting the cabinet: %v"},
	{OrderUpdated, "Kolejność szafek została zaktualizowana", "Cabinet order updated"},
	{OrderError, "Błąd podczas zmiany kolejności: %v", "Error while reordering: %v"},
	{SortError, "Błąd podczas sortowania: %v", "Error while sorting: %v"},
	{SequenceUpdated, "Sekwencja została zmieniona na %d", "Sequence changed to %d"},
	{SequenceUnchanged, "Sekwencja bez zmian", "Sequence unchanged"},
	{SequenceDuplicate, "Sekwencja %d jest używana przez więcej niż jedną szafę", "Sequence %d is used by more than one cabinet"},
	{SequenceNotFound, "Nie znaleziono szafy do aktualizacji", "Cabinet to update not found"},
	{SequenceFailed, "Nie udało się zaktualizować sekwencji", "Could not update the sequence"},
	{SequenceError, "Błąd podczas aktualizacji sekwencji: %v", "Error while updating the sequence: %v"},
	{ClientSaved, "Dane klienta zostały zapisane", "Client data saved"},
	{ClientSaveFailed, "Nie udało się zapisać danych klienta", "Could not save the client data"},
	{ClientSaveError, "Błąd podczas zapisywania danych klienta: %v", "Error while saving the client data: %v"},
	{ProjectLoadError, "Błąd podczas ładowania danych projektu: %v", "Error while loading the project: %v"},
	{ReportGenerated, "Raport został wygenerowany: %s", "Report generated: %s"},
	{ReportFailed, "Nie udało się wygenerować raportu", "Could not generate the report"},
	{ReportError, "Błąd podczas eksportu: %v", "Error while exporting: %v"},
	{AccessoryLinked, "Akcesorium zostało przypisane do szafki", "Accessory linked to the cabinet"},
	{AccessoryUnlinked, "Akcesorium zostało odłączone od szafki", "Accessory removed from the cabinet"},
	{AccessoryError, "Błąd podczas przypisywania akcesorium: %v", "Error while linking the accessory: %v"},
}

// Catalog returns the message catalog with every key in Polish and English.
func Catalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Polish))
	for _, e := range entries {
		// SetString fails only for malformed tags; the tags are constants.
		_ = b.SetString(Polish, e.key, e.pl)
		_ = b.SetString(English, e.key, e.en)
	}
	return b
}

// Keys returns every message key of the catalog.
func Keys() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

// MatchLanguage returns the supported language closest to lang. Unknown
// or empty input returns Polish.
func MatchLanguage(lang string) language.Tag {
	if lang == "" {
		return Polish
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Polish
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Polish
	}
	return supported[idx]
}

// Translator formats notices in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator returns a translator for lang, falling back to Polish.
func NewTranslator(lang string) *Translator {
	tag := MatchLanguage(lang)
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(Catalog()))}
}

// Language returns the translator language.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Text formats the message of key.
func (t *Translator) Text(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Success returns a success notice.
func (t *Translator) Success(key string, args ...any) Notice {
	return New(LevelSuccess, t.Text(key, args...))
}

// Info returns an info notice.
func (t *Translator) Info(key string, args ...any) Notice {
	return New(LevelInfo, t.Text(key, args...))
}

// Warning returns a warning notice for err.
func (t *Translator) Warning(err error, key string, args ...any) Notice {
	n := New(LevelWarning, t.Text(key, args...))
	n.Err = err
	return n
}

// Error returns a sticky error notice for err.
func (t *Translator) Error(err error, key string, args ...any) Notice {
	n := New(LevelError, t.Text(key, args...))
	n.Err = err
	return n
}
