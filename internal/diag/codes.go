package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Ввод-вывод
	IOInfo          Code = 1000
	IOLoadFileError Code = 1001
	IOWriteError    Code = 1002

	// Препроцессор
	PreInfo            Code = 2000
	PreMissingImport   Code = 2001
	PreDuplicateImport Code = 2002
	PreImportCycle     Code = 2003
	PreUnknownImport   Code = 2004
	PreImportReadError Code = 2005
	PreCombinedSampler Code = 2101

	// Трансляция
	TrnInfo             Code = 3000
	TrnFailed           Code = 3001
	TrnVerifyFailed     Code = 3002
	TrnUnsupportedStage Code = 3003

	// Проект / пакетная обработка
	PrjInfo            Code = 4000
	PrjSkippedFile     Code = 4001
	PrjMissingCategory Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	IOInfo:              "I/O information",
	IOLoadFileError:     "Failed to load file",
	IOWriteError:        "Failed to write output",
	PreInfo:             "Preprocessor information",
	PreMissingImport:    "Missing import",
	PreDuplicateImport:  "Import already included",
	PreImportCycle:      "Import cycle",
	PreUnknownImport:    "Unknown import scheme",
	PreImportReadError:  "Error importing file",
	PreCombinedSampler:  "Combined image sampler needs texture+sampler split",
	TrnInfo:             "Translation information",
	TrnFailed:           "Translation failed",
	TrnVerifyFailed:     "Translated WGSL failed validation",
	TrnUnsupportedStage: "Unsupported shader stage",
	PrjInfo:             "Project information",
	PrjSkippedFile:      "File skipped",
	PrjMissingCategory:  "Shader category directory not found",
}

// ID returns the stable identifier such as PRE2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PRE%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TRN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
