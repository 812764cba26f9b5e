package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadScript loads a JavaScript file by name using the default embedded loader.
// The name should not include the .js extension or path components.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

// Bundle is the page furniture for rendered frames.
type Bundle struct {
	CSS    string
	Script string
}

// LoadBundle loads the default frame stylesheet and copy script from loader.
// extraCSS (typically the chroma class stylesheet) is appended to the frame CSS.
func LoadBundle(loader AssetLoader, extraCSS string) (Bundle, error) {
	css, err := loader.LoadStyle(DefaultStyleName)
	if err != nil {
		return Bundle{}, err
	}
	script, err := loader.LoadScript(DefaultScriptName)
	if err != nil {
		return Bundle{}, err
	}
	if extraCSS != "" {
		css += "\n" + extraCSS
	}
	return Bundle{CSS: css, Script: script}, nil
}
