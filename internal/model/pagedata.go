package model

// Site is the site-wide context handed to every template.
type Site struct {
	Hostname string
	Title    string
}

// PageData is the template context for every rendered page. Fields a page
// does not use are left zero.
type PageData struct {
	Site  Site
	Post  *Post
	Posts []Post
	Tag   Tag
	Tags  []TagCount
	Count int
	Many  bool
}

// TagCount pairs a tag with the number of posts carrying it.
type TagCount struct {
	Tag   Tag
	Count int
}
