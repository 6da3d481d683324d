package vpn

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/yllada/lanparty-client/common"
)

const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

// ICMPProber sends ICMP echo requests.
//
// Privileged probers use raw sockets. Unprivileged probers use datagram
// ICMP sockets, which on Linux requires the group to be allowed by
// net.ipv4.ping_group_range.
type ICMPProber struct {
	privileged bool
	id         int
	seq        atomic.Uint32
	payload    []byte
}

// NewICMPProber creates a prober. See DefaultPrivileged.
func NewICMPProber(privileged bool) *ICMPProber {
	return &ICMPProber{
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
		payload:    probePayload(common.ProbePayloadSize),
	}
}

// DefaultPrivileged reports whether raw ICMP sockets are the usual choice
// on this platform.
func DefaultPrivileged() bool {
	return runtime.GOOS == "windows"
}

func probePayload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%23)
	}
	return b
}

type icmpFamily struct {
	network  string
	listen   string
	proto    int
	request  icmp.Type
	reply    icmp.Type
	unreach  icmp.Type
	exceeded icmp.Type
	// innerHeader is the fixed IP header length quoted in error messages;
	// zero means read it from the IPv4 IHL field.
	innerHeader int
}

func (p *ICMPProber) family(target netip.Addr) icmpFamily {
	if target.Is4() {
		f := icmpFamily{
			network:  "udp4",
			listen:   "0.0.0.0",
			proto:    protocolICMP,
			request:  ipv4.ICMPTypeEcho,
			reply:    ipv4.ICMPTypeEchoReply,
			unreach:  ipv4.ICMPTypeDestinationUnreachable,
			exceeded: ipv4.ICMPTypeTimeExceeded,
		}
		if p.privileged {
			f.network = "ip4:icmp"
		}
		return f
	}
	f := icmpFamily{
		network:     "udp6",
		listen:      "::",
		proto:       protocolIPv6ICMP,
		request:     ipv6.ICMPTypeEchoRequest,
		reply:       ipv6.ICMPTypeEchoReply,
		unreach:     ipv6.ICMPTypeDestinationUnreachable,
		exceeded:    ipv6.ICMPTypeTimeExceeded,
		innerHeader: ipv6.HeaderLen,
	}
	if p.privileged {
		f.network = "ip6:ipv6-icmp"
	}
	return f
}

// Probe sends one echo request to target and waits for the matching reply.
func (p *ICMPProber) Probe(ctx context.Context, target netip.Addr, timeout time.Duration) ProbeResult {
	target = target.Unmap()
	fam := p.family(target)

	conn, err := icmp.ListenPacket(fam.network, fam.listen)
	if err != nil {
		return ProbeResult{Status: ProbeError, Err: err}
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return ProbeResult{Status: ProbeError, Err: err}
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: fam.request,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: p.payload},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return ProbeResult{Status: ProbeError, Err: err}
	}

	var dst net.Addr = &net.UDPAddr{IP: target.AsSlice()}
	if p.privileged {
		dst = &net.IPAddr{IP: target.AsSlice()}
	}

	start := time.Now()
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return p.failure(ctx, err)
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return p.failure(ctx, err)
		}

		reply, err := icmp.ParseMessage(fam.proto, buf[:n])
		if err != nil {
			continue
		}

		switch reply.Type {
		case fam.reply:
			echo, ok := reply.Body.(*icmp.Echo)
			if !ok || echo.Seq != seq || peerAddr(peer) != target {
				continue
			}
			// Datagram sockets rewrite the identifier.
			if p.privileged && echo.ID != p.id {
				continue
			}
			return ProbeResult{Status: ProbeSuccess, RTT: time.Since(start)}
		case fam.unreach:
			if body, ok := reply.Body.(*icmp.DstUnreach); ok && p.quotesEcho(fam, body.Data, seq) {
				return ProbeResult{Status: ProbeDestinationUnreachable}
			}
		case fam.exceeded:
			if body, ok := reply.Body.(*icmp.TimeExceeded); ok && p.quotesEcho(fam, body.Data, seq) {
				return ProbeResult{Status: ProbeTimeExceeded}
			}
		}
	}
}

// failure classifies a socket error.
func (p *ICMPProber) failure(ctx context.Context, err error) ProbeResult {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ProbeResult{Status: ProbeError, Err: ctxErr}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProbeResult{Status: ProbeTimeout}
	}
	if errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return ProbeResult{Status: ProbeDestinationUnreachable}
	}
	return ProbeResult{Status: ProbeError, Err: err}
}

// quotesEcho reports whether an ICMP error quotes our echo request.
// data holds the original IP header followed by the first bytes of the
// original ICMP message.
func (p *ICMPProber) quotesEcho(fam icmpFamily, data []byte, seq int) bool {
	hdr := fam.innerHeader
	if hdr == 0 {
		if len(data) < 1 {
			return false
		}
		hdr = int(data[0]&0x0f) * 4
	}
	if len(data) < hdr+8 {
		return false
	}
	inner := data[hdr:]
	innerSeq := int(inner[6])<<8 | int(inner[7])
	if innerSeq != seq {
		return false
	}
	if p.privileged {
		innerID := int(inner[4])<<8 | int(inner[5])
		return innerID == p.id
	}
	return true
}

func peerAddr(a net.Addr) netip.Addr {
	var ip net.IP
	switch v := a.(type) {
	case *net.IPAddr:
		ip = v.IP
	case *net.UDPAddr:
		ip = v.IP
	default:
		return netip.Addr{}
	}
	addr, _ := netip.AddrFromSlice(ip)
	return addr.Unmap()
}
