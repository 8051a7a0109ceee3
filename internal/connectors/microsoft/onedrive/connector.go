// Package onedrive fills the travel-allowance workbook on the user's drive
// via the Microsoft Graph workbook API. The template lives in the app folder;
// each trip copies it into the target folder and writes the rows remotely.
package onedrive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.AllowanceSheetAdapter = (*Connector)(nil)

const (
	// copyPollLimit bounds the async copy monitor polling.
	copyPollLimit = 30
	// xlsxContentType is the MIME type for uploaded workbooks.
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Connector is the drive-backed allowance filler.
type Connector struct {
	client       *microsoft.Client
	templatePath string
	templateName string

	// pollInterval is the delay between copy monitor polls.
	pollInterval time.Duration
}

// New creates a OneDrive allowance connector. templatePath points at the
// local template workbook uploaded to the app folder on first use.
func New(client *microsoft.Client, templatePath, templateName string) *Connector {
	if templateName == "" {
		templateName = "allowance-template.xlsx"
	}
	return &Connector{
		client:       client,
		templatePath: templatePath,
		templateName: templateName,
		pollInterval: 2 * time.Second,
	}
}

// FillTemplate copies the template into the target drive folder, writes one
// row per trip date into each applicable sheet, and returns the new item's
// web URL.
func (c *Connector) FillTemplate(ctx context.Context, spec driven.FillSpec) (string, error) {
	if len(spec.Dates) == 0 {
		return "", fmt.Errorf("onedrive: no trip dates")
	}

	if err := c.ensureTemplate(ctx); err != nil {
		return "", err
	}

	folderID, err := c.resolveFolder(ctx, spec.Target)
	if err != nil {
		return "", err
	}

	outName := domain.AllowanceFileName(spec.FamilyName, spec.Dates[0])
	itemID, err := c.copyTemplate(ctx, folderID, outName)
	if err != nil {
		return "", err
	}

	for _, sheet := range domain.AllowanceSheets(spec.Dates) {
		if err := c.fillSheet(ctx, itemID, sheet, spec); err != nil {
			return "", err
		}
	}

	item, err := c.getItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	return item.WebURL, nil
}

// ensureTemplate uploads the local template into the app folder unless a copy
// already exists there.
func (c *Connector) ensureTemplate(ctx context.Context) error {
	path := "/me/drive/special/approot:/" + url.PathEscape(c.templateName)
	resp, err := c.client.Do(ctx, "GET", path, nil)
	if err != nil {
		return fmt.Errorf("check template: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check template: %w", microsoft.WrapError(resp.StatusCode))
	}

	logger.Debugf("onedrive: uploading template %s", c.templatePath)
	content, err := os.ReadFile(c.templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	uploadPath := path + ":/content"
	uploadResp, err := c.client.Upload(ctx, "PUT", uploadPath, xlsxContentType, content)
	if err != nil {
		return fmt.Errorf("upload template: %w", err)
	}
	defer uploadResp.Body.Close()
	if uploadResp.StatusCode != http.StatusOK && uploadResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("upload template: %w", microsoft.ResponseError(uploadResp))
	}
	return nil
}

// driveItem is the subset of a Graph drive item the connector reads.
type driveItem struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

// resolveFolder resolves a drive folder path to its item ID. The drive root
// is used when the path is empty.
func (c *Connector) resolveFolder(ctx context.Context, folder string) (string, error) {
	path := "/me/drive/root"
	if folder != "" {
		path = "/me/drive/root:/" + escapeDrivePath(folder)
	}

	var item driveItem
	if err := c.client.DoJSON(ctx, "GET", path, nil, &item); err != nil {
		return "", fmt.Errorf("resolve folder %q: %w", folder, err)
	}
	return item.ID, nil
}

// copyTemplate copies the app-folder template into the target folder and
// waits for the async copy to complete.
func (c *Connector) copyTemplate(ctx context.Context, folderID, name string) (string, error) {
	body := map[string]any{
		"parentReference": map[string]string{"id": folderID},
		"name":            name,
	}
	path := "/me/drive/special/approot:/" + url.PathEscape(c.templateName) + ":/copy"
	resp, err := c.client.Do(ctx, "POST", path, body)
	if err != nil {
		return "", fmt.Errorf("copy template: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("copy template: %w", microsoft.ResponseError(resp))
	}

	monitorURL := resp.Header.Get("Location")
	if monitorURL == "" {
		return "", fmt.Errorf("copy template: no monitor location")
	}
	return c.awaitCopy(ctx, monitorURL)
}

// copyStatus is the async operation monitor payload.
type copyStatus struct {
	Status     string `json:"status"`
	ResourceID string `json:"resourceId"`
}

// awaitCopy polls the copy monitor until the operation completes.
func (c *Connector) awaitCopy(ctx context.Context, monitorURL string) (string, error) {
	for attempt := 0; attempt < copyPollLimit; attempt++ {
		resp, err := c.client.DoURL(ctx, "GET", monitorURL, nil)
		if err != nil {
			return "", fmt.Errorf("poll copy: %w", err)
		}

		var status copyStatus
		decodeErr := decodeBody(resp, &status)
		if decodeErr != nil {
			return "", fmt.Errorf("poll copy: %w", decodeErr)
		}

		switch status.Status {
		case "completed":
			return status.ResourceID, nil
		case "failed":
			return "", fmt.Errorf("copy template: operation failed")
		}

		logger.Debugf("onedrive: copy in progress (%d/%d)", attempt+1, copyPollLimit)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return "", fmt.Errorf("copy template: timed out after %d polls", copyPollLimit)
}

// escapeDrivePath percent-encodes each segment of a drive path while keeping
// the segment separators.
func escapeDrivePath(folder string) string {
	segments := strings.Split(folder, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func (c *Connector) getItem(ctx context.Context, itemID string) (*driveItem, error) {
	var item driveItem
	path := "/me/drive/items/" + itemID + "?$select=id,webUrl"
	if err := c.client.DoJSON(ctx, "GET", path, nil, &item); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}
