package server

// clientScript connects the page to its live session. It forwards events on
// elements carrying data-on-<type> markers and swaps in the markup the
// session pushes back.
const clientScript = `(function () {
  var cfg = window.__MORPHONENT__ || {};
  var marker = cfg.marker || "data-morphonent-id";
  var root = document.querySelector("[" + marker + "=\"R\"]");
  if (!root || !cfg.live) return;
  var scheme = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(scheme + "//" + location.host + cfg.live + "?session=" + encodeURIComponent(cfg.session || ""));
  function send(msg) { if (ws.readyState === 1) ws.send(JSON.stringify(msg)); }
  ["click", "dblclick", "input", "change", "submit", "keydown", "keyup", "mousedown", "mouseup"].forEach(function (type) {
    root.addEventListener(type, function (ev) {
      var el = ev.target.closest && ev.target.closest("[data-on-" + type + "]");
      if (!el || !root.contains(el)) return;
      if (type === "submit") ev.preventDefault();
      var msg = { type: "event", target: el.getAttribute(marker), event: type };
      if ("value" in el) msg.value = String(el.value);
      send(msg);
    }, true);
  });
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "html") {
      var active = document.activeElement, id = active && active.getAttribute && active.getAttribute(marker);
      var start = active && active.selectionStart, end = active && active.selectionEnd;
      root.innerHTML = msg.html;
      if (id) {
        var next = root.querySelector("[" + marker + "=\"" + id + "\"]");
        if (next) {
          next.focus();
          if (typeof start === "number" && next.setSelectionRange) next.setSelectionRange(start, end);
        }
      }
    } else if (msg.type === "error") {
      console.error("morphonent: " + msg.code + ": " + msg.error);
    }
  };
  window.morphonent = { dispatch: function (name, payload) { send({ type: "dispatch", name: name, payload: payload }); } };
})();`
