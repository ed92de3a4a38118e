package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pkordes/trek-booking/internal/flexlist"
	"github.com/pkordes/trek-booking/internal/media"
)

// maxTrekImages is how many trekImage files one request may carry.
const maxTrekImages = 6

// form is a request body read as multipart, urlencoded or JSON. The admin
// client sends multipart when images are attached and JSON otherwise; both
// reach the handlers through the same accessors.
type form struct {
	values url.Values
	body   map[string]json.RawMessage
	files  map[string][]*multipart.FileHeader
	mf     *multipart.Form
}

var errBadJSON = errors.New("request body must be a JSON object")

// readForm parses the request body. It writes the error response itself and
// returns false when the body cannot be read.
func (s *Server) readForm(w http.ResponseWriter, r *http.Request) (*form, bool) {
	f, err := s.parseForm(r)
	if err == nil {
		return f, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeEnvelope(w, http.StatusRequestEntityTooLarge, nil, "request body too large", nil)
		return nil, false
	}
	badRequest(w, err.Error())
	return nil, false
}

func (s *Server) parseForm(r *http.Request) (*form, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		f := &form{body: map[string]json.RawMessage{}}
		err := json.NewDecoder(r.Body).Decode(&f.body)
		if err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, errBadJSON
		}
		return f, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.opts.MaxMultipartMemory); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		return &form{values: r.MultipartForm.Value, files: r.MultipartForm.File, mf: r.MultipartForm}, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		return &form{values: r.PostForm}, nil
	}
}

// cleanup removes any temporary files the multipart parser created.
func (f *form) cleanup() {
	if f.mf != nil {
		_ = f.mf.RemoveAll()
	}
}

// str returns a scalar field as text. JSON numbers and booleans are returned
// in their literal form so the service can parse them like form values.
func (f *form) str(key string) string {
	if f.values != nil {
		return f.values.Get(key)
	}
	raw, ok := f.body[key]
	if !ok {
		return ""
	}
	res := gjson.ParseBytes(raw)
	switch res.Type {
	case gjson.String:
		return res.Str
	case gjson.Null:
		return ""
	default:
		return res.Raw
	}
}

// list returns a list field as it arrived, for flexlist to decode.
func (f *form) list(key string) flexlist.Value {
	if f.values != nil {
		if v, ok := f.values[key]; ok {
			return flexlist.FromForm(v)
		}
		return flexlist.FromRepeated(f.values[key+"[]"])
	}
	return flexlist.FromJSON(f.body[key])
}

// images reads every file uploaded under key, at most limit of them.
func (f *form) images(key string, limit int) ([]media.Image, error) {
	headers := f.files[key]
	if len(headers) > limit {
		return nil, fmt.Errorf("at most %d %s files are allowed", limit, key)
	}
	out := make([]media.Image, 0, len(headers))
	for _, h := range headers {
		img, err := readImage(h)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// image reads the single file uploaded under key, or returns nil.
func (f *form) image(key string) (*media.Image, error) {
	imgs, err := f.images(key, 1)
	if err != nil || len(imgs) == 0 {
		return nil, err
	}
	return &imgs[0], nil
}

func readImage(h *multipart.FileHeader) (media.Image, error) {
	file, err := h.Open()
	if err != nil {
		return media.Image{}, fmt.Errorf("cannot read %s: %w", h.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return media.Image{}, fmt.Errorf("cannot read %s: %w", h.Filename, err)
	}
	ct := h.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return media.Image{Filename: h.Filename, ContentType: ct, Data: data}, nil
}
