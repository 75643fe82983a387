// Package remote talks to the hosting backend: project document reads and
// writes plus multipart uploads for generated assets (heightmaps, models,
// textures, scripts).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/glimt/levelforge/saved"
)

type Client struct {
	base string
	hc   *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// projectEnvelope is the wire shape of a project record: the scene document
// travels inside a savedData field.
type projectEnvelope struct {
	SavedData *saved.Document `json:"savedData"`
}

// SaveProject replaces the stored scene document of a project.
func (c *Client) SaveProject(ctx context.Context, projectID string, doc *saved.Document) error {
	body, err := json.Marshal(&projectEnvelope{SavedData: doc})
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal project %q", projectID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.base+"/api/projects/"+projectID, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "Failed to create save request for %q", projectID)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// FetchProject loads the stored scene document of a project.
func (c *Client) FetchProject(ctx context.Context, projectID string) (*saved.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/api/projects/"+projectID, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create fetch request for %q", projectID)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to fetch project %q", projectID)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Fetch project %q: unexpected status %v", projectID, resp.Status)
	}
	var env projectEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode project %q", projectID)
	}
	if env.SavedData == nil {
		env.SavedData = saved.NewDocument()
	}
	return env.SavedData, nil
}

// UploadHeightmap stores a generated heightmap image under a project and
// binds it to a landscape asset.
func (c *Client) UploadHeightmap(ctx context.Context, projectPath, landscapeAssetID, filename string, png []byte) error {
	return c.upload(ctx, "/api/save-heightmap", map[string]string{
		"projectPath":      projectPath,
		"landscapeAssetId": landscapeAssetID,
		"filename":         filename,
	}, filename, bytes.NewReader(png))
}

// UploadModel stores a model file (glTF / GLB) under a project.
func (c *Client) UploadModel(ctx context.Context, projectPath, filename string, src io.Reader) error {
	return c.upload(ctx, "/api/upload-model", map[string]string{
		"projectPath": projectPath,
		"filename":    filename,
	}, filename, src)
}

// UploadTexture stores a texture image under a project.
func (c *Client) UploadTexture(ctx context.Context, projectPath, filename string, src io.Reader) error {
	return c.upload(ctx, "/api/upload-texture", map[string]string{
		"projectPath": projectPath,
		"filename":    filename,
	}, filename, src)
}

// SaveScript stores a behavior script under a project's scripts directory.
func (c *Client) SaveScript(ctx context.Context, projectPath, filename, content string) error {
	return c.upload(ctx, "/api/save-script", map[string]string{
		"projectPath": projectPath,
		"filename":    filename,
	}, filename, strings.NewReader(content))
}

func (c *Client) upload(ctx context.Context, endpoint string, fields map[string]string, filename string, src io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrapf(err, "Failed to write form field %q", k)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return errors.Wrapf(err, "Failed to create form file %q", filename)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return errors.Wrapf(err, "Failed to fill form file %q", filename)
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "Failed to finish multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpoint, &buf)
	if err != nil {
		return errors.Wrapf(err, "Failed to create upload request %q", endpoint)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Request %s %s failed", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("%s %s: unexpected status %v", req.Method, req.URL.Path, resp.Status)
	}
	return nil
}
