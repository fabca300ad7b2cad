package ping

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const echoPayload = "dns-config-changer"

// ICMPPinger sends ICMP echo requests over raw sockets. Raw sockets need
// root or CAP_NET_RAW; pair with ExternalPinger via FallbackPinger when
// that cannot be assumed.
type ICMPPinger struct {
	id  int
	seq uint32
}

// NewICMPPinger initializes a pinger with a process-scoped echo identifier.
func NewICMPPinger() (*ICMPPinger, error) {
	return &ICMPPinger{id: os.Getpid() & 0xffff}, nil
}

// Ping sends one echo request and waits for the matching reply.
func (p *ICMPPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}

	dst, err := resolveIP(addr)
	if err != nil {
		return Result{Err: err}
	}

	network, proto, echoType, replyType := icmpFamily(dst.IP)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return Result{Err: err}
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1) & 0xffff)
	req := icmp.Message{
		Type: echoType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte(echoPayload),
		},
	}
	wire, err := req.Marshal(nil)
	if err != nil {
		return Result{Err: err}
	}

	if err := conn.SetDeadline(probeDeadline(ctx, timeout)); err != nil {
		return Result{Err: err}
	}

	start := time.Now()
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return Result{Err: err}
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Err: err}
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Result{Err: fmt.Errorf("probe timeout: %w", err)}
			}
			return Result{Err: err}
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(proto, buf[:n])
		if err != nil || reply.Type != replyType {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || echo.ID != p.id || echo.Seq != seq {
			// Reply for some other process or an earlier probe.
			continue
		}

		return Result{Success: true, RTT: time.Since(start)}
	}
}

func resolveIP(addr string) (*net.IPAddr, error) {
	ipAddr, err := net.ResolveIPAddr("ip", addr)
	if err != nil {
		return nil, err
	}
	if ipAddr.IP == nil {
		return nil, fmt.Errorf("invalid probe target: %s", addr)
	}
	return ipAddr, nil
}

func icmpFamily(ip net.IP) (network string, proto int, echoType, replyType icmp.Type) {
	if ip.To4() != nil {
		return "ip4:icmp", ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	return "ip6:ipv6-icmp", ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}

// probeDeadline bounds a probe by the per-attempt timeout, or by the
// context deadline when that comes first.
func probeDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}
