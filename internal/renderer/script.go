package renderer

// CookieLookupScript reads one cookie from document.cookie. It takes the
// cookie name as its only argument and returns the value, or null when the
// document has no such cookie.
//
// Adapted from https://developer.mozilla.org/en-US/docs/Web/API/Document/cookie
const CookieLookupScript = `function (key) {
	var escaped = key.replace(/[\-\.\+\*]/g, "\\$&");
	var reTest = new RegExp("(?:^|;\\s*)" + escaped + "\\s*\\=");
	var reGet = new RegExp("(?:(?:^|.*;)\\s*" + escaped + "\\s*\\=\\s*([^;]*).*$)|^.*$");
	if (reTest.test(document.cookie)) {
		return document.cookie.replace(reGet, "$1");
	}
	return null;
}`
