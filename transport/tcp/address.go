// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package tcp

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-sockaddr"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
)

// bindIP returns the IP other nodes can reach a listener bound to ip on.
// An unspecified IP is replaced by a private address, or a public one when
// the host has no private address.
func bindIP(ip net.IP) (string, error) {
	if !ip.IsUnspecified() {
		return ip.String(), nil
	}

	ipStr, err := sockaddr.GetPrivateIP()
	if err != nil {
		return "", fmt.Errorf("failed to get private interface addresses: %w", err)
	}

	if ipStr == "" {
		ipStr, err = sockaddr.GetPublicIP()
		if err != nil {
			return "", fmt.Errorf("failed to get public interface addresses: %w", err)
		}
	}

	if ipStr == "" {
		return "", fmt.Errorf("no private IP address found, and explicit IP not provided")
	}

	parsed := net.ParseIP(ipStr)
	if parsed == nil {
		return "", fmt.Errorf("failed to parse private IP address: %q", ipStr)
	}
	return parsed.String(), nil
}

// NodeAddress returns the address of the node listening on host:port.
func NodeAddress(prefix address.Address, host string, port int) address.Address {
	return prefix.Append(net.JoinHostPort(host, strconv.Itoa(port)))
}

// splitNode splits a TCP address into the dial target of its node and the
// address of the actor within that node.
func splitNode(prefix, addr address.Address) (string, address.Address, error) {
	rest, ok := addr.RemovePrefix(prefix)
	if !ok || rest.IsZero() {
		return "", address.Address{}, errors.NewErrInvalidAddress(fmt.Errorf("%s is not under %s", addr, prefix))
	}

	node := rest.Element(0)
	if _, _, err := net.SplitHostPort(node); err != nil {
		return "", address.Address{}, errors.NewErrInvalidAddress(fmt.Errorf("%s: %w", addr, err))
	}

	local, _ := rest.RemovePrefix(rest.Prefix(1))
	return node, local, nil
}

// localAddress rebuilds an address suffix carried in an envelope. No
// element means the node itself.
func localAddress(elements []string) (address.Address, error) {
	if len(elements) == 0 {
		return address.Address{}, nil
	}

	local := address.New(elements...)
	if err := local.Validate(); err != nil {
		return address.Address{}, err
	}
	return local, nil
}
