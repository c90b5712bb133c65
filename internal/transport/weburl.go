package transport

import "strings"

// hostingPrefixes are document-root directories typical of shared hosting.
// They are part of the upload path but never part of the public URL.
var hostingPrefixes = []string{
	"/public_html",
	"/var/www/html",
	"/htdocs",
	"/www",
	"/httpdocs",
	"/web",
}

// WebURL derives the public address of an uploaded file from the transfer
// configuration: the "ftp." host prefix is dropped and the hosting document
// root is stripped from the remote path. With an empty filename it returns
// the site root.
func WebURL(host, remotePath, filename string) string {
	host = strings.TrimPrefix(host, "ftp.")

	webPath := remotePath
	for _, prefix := range hostingPrefixes {
		if strings.HasPrefix(webPath, prefix) {
			webPath = webPath[len(prefix):]
			break
		}
	}
	if webPath != "" && !strings.HasPrefix(webPath, "/") {
		webPath = "/" + webPath
	}

	url := "http://" + host + webPath + "/"
	if filename != "" {
		url += filename
	}

	for strings.Contains(url[len("http://"):], "//") {
		url = "http://" + strings.ReplaceAll(url[len("http://"):], "//", "/")
	}
	return url
}
