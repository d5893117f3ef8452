package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	pb "github.com/dmitrijs2005/gophmedia/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.MediaServiceClient
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewMediaClient dials endpointURL. timeout bounds each RPC; zero disables it.
func NewMediaClient(endpointURL, accessToken string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewMediaServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func variantNames(vs []models.Variant) []string {
	out := make([]string, len(vs))
	for n, v := range vs {
		out[n] = string(v)
	}
	return out
}

func (s *GRPCClient) InitAsset(ctx context.Context, intent *models.UploadIntent) (*InitAssetResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &pb.InitAssetRequest{
		Id:          intent.ID,
		FileName:    intent.FileName,
		ContentType: intent.ContentType,
		Kind:        string(intent.Kind),
		Size:        intent.Size,
		Variants:    variantNames(intent.Variants()),
	}

	resp, err := s.client.InitAsset(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &InitAssetResult{ContentID: resp.ContentId, WriteURLs: models.URLsFromMap(resp.WriteUrls)}, nil
}

func (s *GRPCClient) CreateAsset(ctx context.Context, intent *models.UploadIntent) (*models.Asset, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &pb.CreateAssetRequest{
		Id:              intent.ID,
		ContentId:       intent.ContentID,
		FileName:        intent.FileName,
		ContentType:     intent.ContentType,
		Kind:            string(intent.Kind),
		Size:            intent.Size,
		DurationMs:      intent.Duration.Milliseconds(),
		Color:           intent.Color,
		XRes:            int32(intent.XRes),
		YRes:            int32(intent.YRes),
		Caption:         intent.Caption,
		ExpirationHours: int32(intent.ExpirationHours),
		Variants:        variantNames(intent.Variants()),
	}

	resp, err := s.client.CreateAsset(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Asset == nil {
		return nil, ErrEmptyReply
	}

	return assetFromPB(resp.Asset), nil
}

func assetFromPB(a *pb.Asset) *models.Asset {
	asset := &models.Asset{
		ID:          a.Id,
		ContentID:   a.ContentId,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Kind:        models.MediaKind(a.Kind),
		Size:        a.Size,
		Duration:    time.Duration(a.DurationMs) * time.Millisecond,
		Color:       a.Color,
		XRes:        int(a.XRes),
		YRes:        int(a.YRes),
		Caption:     a.Caption,
		ReadURLs:    models.URLsFromMap(a.ReadUrls),
		Status:      a.Status,
	}
	if a.CreatedAt > 0 {
		asset.CreatedAt = time.UnixMilli(a.CreatedAt).UTC()
	}
	if a.ExpiresAt > 0 {
		asset.ExpiresAt = time.UnixMilli(a.ExpiresAt).UTC()
	}
	return asset
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
