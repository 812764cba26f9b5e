// Package assets provides the stylesheet and copy-button script that
// accompany rendered code frames in HTML output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the CLI. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found, so a site can restyle frames without replacing the copy script.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── frame.css
//	└── scripts/
//	    └── copy.js
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
