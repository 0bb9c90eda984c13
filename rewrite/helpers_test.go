package rewrite

import "docimage/resources"

func resourceOf(mime, payload string) resources.Resource {
	return resources.Resource{MimeType: mime, Payload: payload}
}
