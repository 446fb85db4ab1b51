package convert

import "strings"

// Format describes one selectable output format. Image-sequence formats
// render one numbered file per frame; movie formats render a single file.
type Format struct {
	Name      string
	Extension string
	IsMovie   bool
}

// Formats lists the selectable output formats in panel menu order.
var Formats = []Format{
	{Name: "PNG", Extension: "png", IsMovie: false},
	{Name: "JPEG", Extension: "jpg", IsMovie: false},
	{Name: "MP4", Extension: "mp4", IsMovie: true},
	{Name: "AVI", Extension: "avi", IsMovie: true},
}

// FormatByName resolves a format by its menu name, case-insensitively.
func FormatByName(name string) (Format, bool) {
	name = strings.TrimSpace(name)
	for _, format := range Formats {
		if strings.EqualFold(format.Name, name) {
			return format, true
		}
	}
	return Format{}, false
}

// FormatNames returns the menu names in order.
func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for _, format := range Formats {
		names = append(names, format.Name)
	}
	return names
}
