package remote

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/vers/store"
	"xdao.co/vers/store/localfs"
	"xdao.co/vers/store/mem"
)

func dialBuf(t *testing.T, backing store.Store) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterRecordStoreServer(srv, &Server{Store: backing})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewRecordStoreClient(cc), Timeout: 2 * time.Second}
}

func TestRecordStore_LocalFS_RoundTrip(t *testing.T) {
	backing, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := dialBuf(t, backing)

	payload := []byte("hello remote store")
	id, err := client.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !id.Defined() {
		t.Fatalf("expected defined CID")
	}
	if !client.Has(id) {
		t.Fatalf("Has: expected true")
	}
	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestRecordStore_NotFoundMapsToSentinel(t *testing.T) {
	client := dialBuf(t, mem.New())

	absent, err := client.Put([]byte("probe"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	// A fresh backing store will not hold the CID of different bytes.
	client2 := dialBuf(t, mem.New())
	_, err = client2.Get(absent)
	if !store.IsNotFound(err) {
		t.Fatalf("Get absent: got %v, want ErrNotFound", err)
	}
}
