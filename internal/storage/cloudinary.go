package storage

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps gallery blobs in Cloudinary. Keys are public ids.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

// GenerateUploadURL returns a signed direct-upload URL. The client POSTs the
// file to it as multipart field "file".
func (c *CloudinaryStore) GenerateUploadURL(ctx context.Context, key string) (string, error) {
	params := url.Values{}
	params.Set("public_id", key)
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))

	cloud := c.cld.Config.Cloud
	signature, err := api.SignParametersUsingAlgoAndVersion(params, cloud.APISecret, cloud.GetSignatureAlgorithm(), cloud.GetSignatureVersion())
	if err != nil {
		return "", fmt.Errorf("failed to sign upload for %s: %w", key, err)
	}
	params.Set("signature", signature)
	params.Set("api_key", cloud.APIKey)

	endpoint := fmt.Sprintf("%s/%s/%s", api.BaseURL(c.cld.Config.API.UploadPrefix, ""), cloud.CloudName, api.BuildPath(api.Auto, "upload"))
	return endpoint + "?" + params.Encode(), nil
}

func (c *CloudinaryStore) GetURL(ctx context.Context, key string) (string, error) {
	asset, err := c.asset(ctx, key)
	if err != nil || asset == nil {
		return "", err
	}
	return asset.SecureURL, nil
}

// Delete tries the key as an image, then as a video. A key missing under
// both is already gone and counts as deleted.
func (c *CloudinaryStore) Delete(ctx context.Context, key string) error {
	for _, resourceType := range []api.AssetType{api.Image, api.Video} {
		res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     key,
			ResourceType: string(resourceType),
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		if res.Error.Message != "" {
			return fmt.Errorf("failed to delete %s: %s", key, res.Error.Message)
		}
		if res.Result == "ok" {
			return nil
		}
	}
	return nil
}

func (c *CloudinaryStore) Stat(ctx context.Context, key string) (*BlobInfo, error) {
	asset, err := c.asset(ctx, key)
	if err != nil || asset == nil {
		return nil, err
	}
	contentType := mime.TypeByExtension("." + asset.Format)
	if contentType == "" {
		contentType = asset.ResourceType + "/" + asset.Format
	}
	return &BlobInfo{
		ContentType: contentType,
		Size:        int64(asset.Bytes),
		CreatedAt:   asset.CreatedAt,
	}, nil
}

// asset looks the key up as an image first, then as a video.
func (c *CloudinaryStore) asset(ctx context.Context, key string) (*admin.AssetResult, error) {
	for _, assetType := range []api.AssetType{api.Image, api.Video} {
		res, err := c.cld.Admin.Asset(ctx, admin.AssetParams{
			AssetType: assetType,
			PublicID:  key,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch asset %s: %w", key, err)
		}
		if res.Error.Message == "" && res.PublicID != "" {
			return res, nil
		}
	}
	return nil, nil
}
